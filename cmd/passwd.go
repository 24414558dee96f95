// ABOUTME: Password change command for customer principals
// ABOUTME: A successful change invalidates the token, so the session is cleared

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the logged-in customer's password",
	Long: `Change the password of the logged-in customer principal.

The backend invalidates the current token on success, so the stored
session is cleared and you must log in again.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPasswd(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}

// runPasswd executes the password change and returns exit code
func runPasswd(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if c.store.Current() == nil {
		fmt.Fprintln(w, "Error: not logged in. Run: secuone login --customer")
		return 2
	}

	var current, next, confirm string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&current),
		huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&next),
		huh.NewInput().Title("Confirm new password").EchoMode(huh.EchoModePassword).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if next != confirm {
		fmt.Fprintln(w, "Error: new passwords do not match.")
		return 1
	}

	if err := c.client.Auth.ChangePassword(ctx, current, next); err != nil {
		return fail(w, err)
	}
	fmt.Fprintln(w, "Password changed. Session cleared; log in again with: secuone login --customer")
	return 0
}
