// ABOUTME: Logout command
// ABOUTME: Clears the stored session locally and tells the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout executes the logout and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if c.store.Current() == nil {
		fmt.Fprintln(w, "Not logged in.")
		return 0
	}
	if err := c.client.Auth.Logout(ctx); err != nil {
		// The local session is cleared before this error surfaces.
		fmt.Fprintf(w, "Warning: backend logout failed: %v\n", err)
		fmt.Fprintln(w, "Local session cleared.")
		return 0
	}
	fmt.Fprintln(w, "Logged out.")
	return 0
}
