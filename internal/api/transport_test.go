// ABOUTME: Tests for the authenticated transport
// ABOUTME: Uses httptest to verify headers, error taxonomy and session invalidation

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/polarisoffice/secuone-console/internal/session"
)

func testStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

func loggedInStore(t *testing.T) *session.Store {
	t.Helper()
	store := testStore(t)
	err := store.Set(session.Session{Type: session.TypeAdmin, Token: "tok-1"})
	if err != nil {
		t.Fatalf("failed to set session: %v", err)
	}
	return store
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	transport, err := NewTransport(server.URL, "", loggedInStore(t), 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("expected Bearer tok-1, got %q", gotAuth)
	}
}

func TestDo_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	transport, err := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDo_SetsRequestID(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)
	if gotID == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestDo_BasePathPrepended(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "/manager", testStore(t), 5*time.Second)
	transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)
	if gotPath != "/manager/api/thing" {
		t.Errorf("expected /manager/api/thing, got %s", gotPath)
	}
}

func TestDo_Unauthorized_ClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := loggedInStore(t)
	transport, _ := NewTransport(server.URL, "", store, 5*time.Second)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.Current() != nil {
		t.Error("expected session to be cleared after 401")
	}
}

func TestDo_Forbidden_KeepsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := loggedInStore(t)
	transport, _ := NewTransport(server.URL, "", store, 5*time.Second)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.Current() == nil {
		t.Error("expected session to survive a 403")
	}
}

func TestDo_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDo_ValidationError_CarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"name is required"}`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	_, err := transport.Do(context.Background(), http.MethodPost, "/api/thing", nil, map[string]string{}, nil)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "name is required" {
		t.Errorf("expected server message, got %q", verr.Message)
	}
}

func TestDo_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"duplicate code"}`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	_, err := transport.Do(context.Background(), http.MethodPost, "/api/thing", nil, map[string]string{}, nil)

	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cerr.Message != "duplicate code" {
		t.Errorf("expected duplicate code, got %q", cerr.Message)
	}
}

func TestDo_ServerError_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if serr.Status != 500 {
		t.Errorf("expected status 500, got %d", serr.Status)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("500 must not match ErrNotFound")
	}
}

func TestDo_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := transport.Do(ctx, http.MethodGet, "/api/thing", nil, nil, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestDo_ConnectionRefused_NetworkError(t *testing.T) {
	transport, _ := NewTransport("http://127.0.0.1:1", "", testStore(t), 1*time.Second)
	_, err := transport.Do(context.Background(), http.MethodGet, "/api/thing", nil, nil, nil)

	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if errors.Is(err, ErrTimeout) && !nerr.Timeout {
		t.Error("non-timeout network error must not match ErrTimeout")
	}
}

func TestDo_QueryEncoded(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	transport, _ := NewTransport(server.URL, "", testStore(t), 5*time.Second)
	transport.Do(context.Background(), http.MethodGet, "/api/thing", url.Values{"limit": {"1"}}, nil, nil)
	if gotQuery != "limit=1" {
		t.Errorf("expected limit=1, got %q", gotQuery)
	}
}

func TestNewTransport_RejectsBadURL(t *testing.T) {
	if _, err := NewTransport("not a url", "", nil, 0); err == nil {
		t.Error("expected error for URL without scheme")
	}
}

func TestResponse_DecodeEmptyBody(t *testing.T) {
	resp := &Response{Status: 200}
	var out map[string]string
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("empty body should decode to zero value, got %v", err)
	}
	if out != nil {
		t.Errorf("expected nil map, got %v", out)
	}
}

func TestResponse_Text(t *testing.T) {
	resp := &Response{Body: []byte("  abc123 \n")}
	if got := resp.Text(); got != "abc123" {
		t.Errorf("expected abc123, got %q", got)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		basePath string
		path     string
		expected string
	}{
		{"", "/api/x", "/api/x"},
		{"/manager", "/api/x", "/manager/api/x"},
		{"/manager/", "/api/x", "/manager/api/x"},
		{"/manager", "api/x", "/manager/api/x"},
	}
	for _, tc := range tests {
		if got := joinPath(tc.basePath, tc.path); got != tc.expected {
			t.Errorf("joinPath(%q, %q) = %q, want %q", tc.basePath, tc.path, got, tc.expected)
		}
	}
}
