// ABOUTME: Test harness and auth tests for the typed backend client
// ABOUTME: Uses httptest backends and a temp-dir credential store

package secuone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/polarisoffice/secuone-console/internal/api"
	"github.com/polarisoffice/secuone-console/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	transport, err := api.NewTransport(server.URL, "", store, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to build transport: %v", err)
	}
	resolver := api.NewResolver(transport, 2*time.Second)
	return newClient(transport, resolver, store), store
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestAdminLogin_StoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "pw" {
			t.Errorf("unexpected credentials %v", body)
		}
		writeJSON(t, w, map[string]any{
			"type":  "admin",
			"token": "tok-admin",
			"user":  map[string]any{"username": "alice"},
		})
	})
	client, store := newTestClient(t, mux)

	result, err := client.Auth.AdminLogin(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token != "tok-admin" {
		t.Errorf("expected tok-admin, got %s", result.Token)
	}
	sess := store.Current()
	if sess == nil || sess.Type != session.TypeAdmin || sess.Token != "tok-admin" {
		t.Errorf("expected stored admin session, got %+v", sess)
	}
	if sess.Username() != "alice" {
		t.Errorf("expected username alice, got %q", sess.Username())
	}
}

func TestCustomerLogin_DisplacesAdminSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customer/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["customerCode"] != "acme" {
			t.Errorf("expected customerCode acme, got %q", body["customerCode"])
		}
		writeJSON(t, w, map[string]any{"type": "customer", "token": "tok-cust"})
	})
	client, store := newTestClient(t, mux)
	store.Set(session.Session{Type: session.TypeAdmin, Token: "tok-admin"})

	if _, err := client.Auth.CustomerLogin(context.Background(), "acme", "bob", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess := store.Current()
	if sess.Type != session.TypeCustomer || sess.Token != "tok-cust" {
		t.Errorf("expected customer session to displace admin, got %+v", sess)
	}
}

func TestLogin_RejectsMissingToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"type": "admin"})
	})
	client, store := newTestClient(t, mux)

	if _, err := client.Auth.AdminLogin(context.Background(), "alice", "pw"); err == nil {
		t.Error("expected error for login response without token")
	}
	if store.Current() != nil {
		t.Error("no session must be stored on a tokenless response")
	}
}

func TestLogin_FailedCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, store := newTestClient(t, mux)

	_, err := client.Auth.AdminLogin(context.Background(), "alice", "wrong")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.Current() != nil {
		t.Error("expected no stored session after failed login")
	}
}

func TestLogout_ClearsLocalStateEvenWhenBackendRejects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, store := newTestClient(t, mux)
	store.Set(session.Session{Type: session.TypeAdmin, Token: "dead-token"})

	if err := client.Auth.Logout(context.Background()); err != nil {
		t.Fatalf("a dead token on logout must not error, got %v", err)
	}
	if store.Current() != nil {
		t.Error("expected local session cleared")
	}
}

func TestMe_UsesPrincipalTypePath(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(t, w, map[string]any{"username": "bob"})
	})
	client, store := newTestClient(t, mux)
	store.Set(session.Session{Type: session.TypeCustomer, Token: "tok"})

	if _, err := client.Auth.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/customer/auth/me" {
		t.Errorf("expected customer me path, got %s", gotPath)
	}
}

func TestChangePassword_ClearsSessionOnSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customer/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"status": "ok"})
	})
	client, store := newTestClient(t, mux)
	store.Set(session.Session{Type: session.TypeCustomer, Token: "tok"})

	if err := client.Auth.ChangePassword(context.Background(), "old", "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Current() != nil {
		t.Error("password change invalidates the token; session must be cleared")
	}
}
