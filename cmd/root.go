// ABOUTME: Root command for the secuone console
// ABOUTME: Handles global flags, config loading and shared error-to-exit-code mapping

package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/polarisoffice/secuone-console/internal/api"
	"github.com/polarisoffice/secuone-console/internal/config"
	"github.com/polarisoffice/secuone-console/internal/logger"
	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/polarisoffice/secuone-console/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "secuone",
	Short: "Admin console for the SecuOne manager backend",
	Long: `secuone is a terminal console for managing SecuOne customers, notices,
newsletters, ad placements, push notifications and security events.

Environment Variables:
  SECUONE_API_URL    Backend origin (default: http://localhost:8080)
  SECUONE_BASE_PATH  Path prefix for sub-path deployments
  SECUONE_HOME       Directory for session state (default: ~/.secuone)`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend origin (overrides SECUONE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// console bundles everything a command needs.
type console struct {
	cfg    *config.Config
	store  *session.Store
	client *secuone.Client
}

// newConsole loads config, opens the credential store and builds the
// API client. Flag beats env beats default for the backend origin.
func newConsole() (*console, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	store, err := session.Open(cfg.Home)
	if err != nil {
		return nil, err
	}
	client, err := secuone.New(cfg, store)
	if err != nil {
		return nil, err
	}
	return &console{cfg: cfg, store: store, client: client}, nil
}

// fail prints err for humans and maps it to an exit code: 2 for
// connectivity/auth plumbing, 1 for user-correctable failures.
func fail(w io.Writer, err error) int {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintf(w, "Error: session expired or not logged in. Run: secuone login%s\n", loginNextHint())
		return 2
	case errors.Is(err, api.ErrForbidden):
		fmt.Fprintln(w, "Error: you are logged in but not allowed to do that.")
		return 1
	case errors.Is(err, api.ErrNotFound):
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	default:
		var verr *api.ValidationError
		var cerr *api.ConflictError
		if errors.As(err, &verr) || errors.As(err, &cerr) {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
}

// loginNextHint preserves where the user was, so the post-login hint
// can point back at the interrupted command.
func loginNextHint() string {
	if len(os.Args) > 1 {
		return " --next " + quoteArg(joinArgs(os.Args[1:]))
	}
	return ""
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func quoteArg(s string) string {
	if s == "" {
		return s
	}
	if url.QueryEscape(s) == s {
		return s
	}
	return fmt.Sprintf("%q", s)
}
