// ABOUTME: Login command for admin and customer principals
// ABOUTME: Prompts for missing credentials with a huh form, stores the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/spf13/cobra"
)

var (
	loginCustomer bool
	loginCode     string
	loginUsername string
	loginPassword string
	loginNext     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store a session",
	Long: `Log in as an admin (default) or a customer principal (--customer)
and store the session for subsequent commands.

Exit codes:
  0 - Logged in
  1 - Rejected credentials
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVar(&loginCustomer, "customer", false, "Log in as a customer principal")
	loginCmd.Flags().StringVar(&loginCode, "code", "", "Customer code (customer login only)")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginNext, "next", "", "Command to resume after login")
}

// runLogin executes the login flow and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := promptMissingCredentials(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var result *secuone.LoginResult
	if loginCustomer {
		result, err = c.client.Auth.CustomerLogin(ctx, loginCode, loginUsername, loginPassword)
	} else {
		result, err = c.client.Auth.AdminLogin(ctx, loginUsername, loginPassword)
	}
	if err != nil {
		return fail(w, err)
	}

	name := loginUsername
	if u, ok := result.User["username"].(string); ok && u != "" {
		name = u
	}
	fmt.Fprintf(w, "Logged in as %s (%s).\n", name, sessionTypeLabel())
	if loginNext != "" {
		fmt.Fprintf(w, "Resume with: secuone %s\n", loginNext)
	}
	return 0
}

func sessionTypeLabel() string {
	if loginCustomer {
		return "customer"
	}
	return "admin"
}

// promptMissingCredentials fills whatever the flags left blank.
func promptMissingCredentials() error {
	var fields []huh.Field
	if loginCustomer && loginCode == "" {
		fields = append(fields, huh.NewInput().Title("Customer code").Value(&loginCode))
	}
	if loginUsername == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&loginUsername))
	}
	if loginPassword == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
