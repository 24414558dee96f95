// ABOUTME: Interactive dashboard command
// ABOUTME: Launches the full-screen TUI for browsing backend resources

package cmd

import (
	"fmt"
	"os"

	"github.com/polarisoffice/secuone-console/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newConsole()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if err := tui.Run(c.client, c.store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
