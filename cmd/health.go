// ABOUTME: Health command for the secuone console
// ABOUTME: Probes backend connectivity and reports where each resource lives

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long: `Probe the backend and report which base path each resource family
currently resolves to. Useful after a backend deploy moved things around.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	statuses := c.client.Health(ctx)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(c.cfg.APIURL, statuses))
	} else {
		fmt.Fprintln(w, formatHealthHuman(c.cfg.APIURL, statuses))
	}

	for _, st := range statuses {
		if st.Error != "" {
			return 2
		}
	}
	return 0
}

// formatHealthHuman formats resolution outcomes for human readability
func formatHealthHuman(url string, statuses []secuone.HealthStatus) string {
	out := fmt.Sprintf("Backend: %s\n", url)
	for _, st := range statuses {
		if st.Error != "" {
			out += fmt.Sprintf("%-14s unreachable: %s\n", st.Family+":", st.Error)
			continue
		}
		out += fmt.Sprintf("%-14s %s\n", st.Family+":", st.Base)
	}
	return out[:len(out)-1]
}

// formatHealthJSON formats resolution outcomes as JSON
func formatHealthJSON(url string, statuses []secuone.HealthStatus) string {
	output := map[string]any{
		"backend":  url,
		"families": statuses,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
