// ABOUTME: Tests for the customer resource client
// ABOUTME: Covers endpoint fallback, legacy alias decoding and stats

package secuone

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/polarisoffice/secuone-console/internal/api"
)

func TestCustomersList_DecodesCanonicalFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"code":"acme","name":"Acme","rsPercent":12.5,"cpiValue":0.4}]`))
	})
	client, _ := newTestClient(t, mux)

	customers, err := client.Customers.List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}
	c := customers[0]
	if c.Code != "acme" || c.RSPercent != 12.5 || c.CPIValue != 0.4 {
		t.Errorf("unexpected customer %+v", c)
	}
}

func TestCustomersList_DecodesLegacyAliases(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"oldco","name":"Old Co","rsRate":7,"cpiRate":0.2}]`))
	})
	client, _ := newTestClient(t, mux)

	customers, err := client.Customers.List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := customers[0]
	if c.Code != "oldco" {
		t.Errorf("expected id alias to fill code, got %q", c.Code)
	}
	if c.RSPercent != 7 || c.CPIValue != 0.2 {
		t.Errorf("expected rate aliases decoded, got %+v", c)
	}
}

func TestCustomersList_CanonicalBeatsAlias(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"code":"acme","id":"legacy","rsPercent":10,"rsRate":99,"cpiValue":1,"cpiRate":99}]`))
	})
	client, _ := newTestClient(t, mux)

	customers, err := client.Customers.List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := customers[0]
	if c.Code != "acme" || c.RSPercent != 10 || c.CPIValue != 1 {
		t.Errorf("canonical fields must win over aliases, got %+v", c)
	}
}

func TestCustomers_ResolvesFallbackBase(t *testing.T) {
	// Only the second candidate serves the collection.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, mux)

	if _, err := client.Customers.List(context.Background(), ""); err != nil {
		t.Fatalf("expected fallback to /api/customers, got %v", err)
	}
}

func TestCustomersExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/admin/customers/exists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != "acme" {
			t.Errorf("expected code query, got %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"exists":true}`))
	})
	client, _ := newTestClient(t, mux)

	taken, err := client.Customers.Exists(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !taken {
		t.Error("expected exists true")
	}
}

func TestCustomersUpdate_SendsPatch(t *testing.T) {
	var gotMethod string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/admin/customers/acme", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"code":"acme","name":"Renamed"}`))
	})
	client, _ := newTestClient(t, mux)

	updated, err := client.Customers.Update(context.Background(), "acme", map[string]any{"name": "Renamed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("customers update goes over PATCH, got %s", gotMethod)
	}
	if updated.Name != "Renamed" {
		t.Errorf("unexpected result %+v", updated)
	}
}

func TestCustomersCreate_DuplicateConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"code already exists"}`))
			return
		}
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Customers.Create(context.Background(), Customer{Code: "acme", Name: "Acme"})
	var cerr *api.ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCustomersStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/admin/customers/acme/stats", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("fromMonth") != "2026-01" || q.Get("toMonth") != "2026-03" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"code":"acme","name":"Acme","totalDownloads":120,"totalDeletes":5,"totalAmountDue":34.5,
			"monthly":[{"month":"2026-01","downloads":40,"deletes":1,"amountDue":11.5,"currency":"USD"}]
		}`))
	})
	client, _ := newTestClient(t, mux)

	stats, err := client.Customers.Stats(context.Background(), "acme", "2026-01", "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalDownloads != 120 || len(stats.Monthly) != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.Monthly[0].Currency != "USD" {
		t.Errorf("unexpected monthly row %+v", stats.Monthly[0])
	}
}
