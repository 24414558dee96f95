// ABOUTME: Whoami command showing the stored session and backend identity
// ABOUTME: Warns when the stored token has already expired

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami executes the identity lookup and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	c, err := newConsole()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	sess := c.store.Current()
	if sess == nil {
		fmt.Fprintln(w, "Not logged in.")
		return 1
	}

	if exp, ok := sess.ExpiresAt(); ok && time.Now().After(exp) {
		fmt.Fprintf(w, "Stored %s session for %s expired at %s. Run: secuone login\n",
			sess.Type, sess.Username(), exp.Format(time.RFC3339))
		return 1
	}

	me, err := c.client.Auth.Me(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]any{
			"type": sess.Type,
			"user": me,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "Type:     %s\n", sess.Type)
	fmt.Fprintf(w, "Username: %s\n", stringField(me, "username"))
	if role := stringField(me, "role"); role != "" {
		fmt.Fprintf(w, "Role:     %s\n", role)
	}
	if exp, ok := sess.ExpiresAt(); ok {
		fmt.Fprintf(w, "Expires:  %s\n", exp.Local().Format(time.RFC3339))
	}
	return 0
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
