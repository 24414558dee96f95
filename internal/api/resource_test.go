// ABOUTME: Tests for the CRUD facade
// ABOUTME: Verifies verb selection, path construction and delete semantics

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestResource(t *testing.T, handler http.HandlerFunc, updateVerb string) *Resource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	transport, err := NewTransport(server.URL, "", nil, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolver := NewResolver(transport, 2*time.Second)
	fam := Family{Name: "things", Candidates: []string{"/api/things"}, Probe: ProbeList}
	return NewResource(transport, resolver, fam, updateVerb)
}

func TestResource_List_NormalizesWrapper(t *testing.T) {
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/things" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"items":[{"id":"a"},{"id":"b"}]}`))
	}, "")

	rows, err := res.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestResource_Get_PathEscapesID(t *testing.T) {
	var gotPath string
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	}, "")

	if _, err := res.Get(context.Background(), "a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/things/a%2Fb" {
		t.Errorf("expected escaped id in path, got %s", gotPath)
	}
}

func TestResource_Update_UsesConfiguredVerb(t *testing.T) {
	var gotMethod string
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			gotMethod = r.Method
		}
		w.Write([]byte(`{}`))
	}, http.MethodPatch)

	if _, err := res.Update(context.Background(), "a", map[string]string{"name": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", gotMethod)
	}
}

func TestResource_Update_DefaultsToPut(t *testing.T) {
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, "")
	if res.UpdateVerb != http.MethodPut {
		t.Errorf("expected default PUT, got %s", res.UpdateVerb)
	}
}

func TestResource_Remove_NoContentIsSuccess(t *testing.T) {
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`[]`))
	}, "")

	if err := res.Remove(context.Background(), "a"); err != nil {
		t.Fatalf("expected 204 to be success, got %v", err)
	}
}

func TestResource_Remove_NotFound(t *testing.T) {
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[]`))
	}, "")

	err := res.Remove(context.Background(), "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResource_Create_ReturnsBody(t *testing.T) {
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"new-1"}`))
			return
		}
		w.Write([]byte(`[]`))
	}, "")

	raw, err := res.Create(context.Background(), map[string]string{"name": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if out["id"] != "new-1" {
		t.Errorf("expected id new-1, got %s", out["id"])
	}
}

func TestResource_ResolutionFailurePropagates(t *testing.T) {
	res := newTestResource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "")

	_, err := res.List(context.Background(), nil)
	var nerr *NoEndpointError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NoEndpointError, got %v", err)
	}
}
