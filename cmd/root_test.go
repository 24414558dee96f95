// ABOUTME: Tests for the root command helpers
// ABOUTME: Verifies exit code mapping and global flag handling

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/polarisoffice/secuone-console/internal/api"
)

func TestFail_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unauthorized", api.ErrUnauthorized, 2},
		{"wrapped unauthorized", fmt.Errorf("call failed: %w", api.ErrUnauthorized), 2},
		{"forbidden", api.ErrForbidden, 1},
		{"not found", &api.StatusError{Status: 404}, 1},
		{"validation", &api.ValidationError{Message: "name required"}, 1},
		{"conflict", &api.ConflictError{Message: "duplicate code"}, 1},
		{"server error", &api.StatusError{Status: 500}, 2},
		{"network", &api.NetworkError{URL: "http://x", Err: errors.New("refused")}, 2},
		{"no endpoint", &api.NoEndpointError{Family: "customers"}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := fail(&buf, tc.err); got != tc.expected {
				t.Errorf("fail(%v) = %d, want %d", tc.err, got, tc.expected)
			}
			if !strings.Contains(buf.String(), "Error:") {
				t.Error("expected error message in output")
			}
		})
	}
}

func TestFail_UnauthorizedSuggestsLogin(t *testing.T) {
	var buf bytes.Buffer
	fail(&buf, api.ErrUnauthorized)

	if !strings.Contains(buf.String(), "secuone login") {
		t.Error("expected login hint for expired sessions")
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestJoinArgs(t *testing.T) {
	if got := joinArgs([]string{"customers", "list", "--json"}); got != "customers list --json" {
		t.Errorf("unexpected join %q", got)
	}
	if got := joinArgs(nil); got != "" {
		t.Errorf("expected empty join, got %q", got)
	}
}

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"whoami", "whoami"},
		{"customers list", `"customers list"`},
	}
	for _, tc := range tests {
		if got := quoteArg(tc.in); got != tc.expected {
			t.Errorf("quoteArg(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}
