// ABOUTME: Tests for the whoami command
// ABOUTME: Verifies session display and logged-out handling

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/polarisoffice/secuone-console/internal/session"
)

// seedSession writes an admin session under a temp home and points the
// command environment at it.
func seedSession(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SECUONE_HOME", home)

	store, err := session.Open(home)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	err = store.Set(session.Session{
		Type:  session.TypeAdmin,
		Token: "test-token",
		User:  map[string]any{"username": "boss"},
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return home
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	t.Setenv("SECUONE_HOME", t.TempDir())

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Not logged in.") {
		t.Error("expected logged-out message")
	}
}

func TestWhoami_Success(t *testing.T) {
	seedSession(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"boss","role":"ADMIN"}`))
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Username: boss") {
		t.Errorf("expected username in output, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "Role:     ADMIN") {
		t.Errorf("expected role in output, got %s", buf.String())
	}
}

func TestWhoami_BackendDown(t *testing.T) {
	seedSession(t)

	apiURL = "http://127.0.0.1:1"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Error("expected error message in output")
	}
}
