// ABOUTME: Admin signup command
// ABOUTME: Registers a new admin account gated by the signup secret

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	signupUsername string
	signupPassword string
	signupRole     string
	signupSecret   string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new admin account",
	Long: `Register a new admin account. Self-registration is gated by a
signup secret handed out by an existing operator.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSignup(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "Username (required)")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password (required)")
	signupCmd.Flags().StringVar(&signupRole, "role", "", "Role (defaults server-side)")
	signupCmd.Flags().StringVar(&signupSecret, "secret", "", "Signup secret")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("password")
}

// runSignup executes the registration and returns exit code
func runSignup(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	result, err := c.client.Auth.AdminSignup(ctx, signupUsername, signupPassword, signupRole, signupSecret)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}
	fmt.Fprintf(w, "Created admin account %s. Log in with: secuone login --username %s\n", signupUsername, signupUsername)
	return 0
}
