// ABOUTME: Customer resource client keyed by customer code
// ABOUTME: CRUD, existence check and settlement stats; tolerates legacy field aliases on decode

package secuone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/polarisoffice/secuone-console/internal/api"
	"github.com/tidwall/gjson"
)

// Customer is a managed tenant. code is the primary key; rsPercent and
// cpiValue are the canonical rate field names (older console builds
// sent cpiRate/rsRate — those are accepted on decode, never sent).
type Customer struct {
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	IntegrationType string     `json:"integrationType,omitempty"`
	RSPercent       float64    `json:"rsPercent"`
	CPIValue        float64    `json:"cpiValue"`
	Note            string     `json:"note,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// CustomerMonthly is one settlement month.
type CustomerMonthly struct {
	Month     string  `json:"month"`
	Downloads int64   `json:"downloads"`
	Deletes   int64   `json:"deletes"`
	AmountDue float64 `json:"amountDue"`
	Currency  string  `json:"currency"`
}

// CustomerStats aggregates a customer's settlement history.
type CustomerStats struct {
	Code           string            `json:"code"`
	Name           string            `json:"name"`
	TotalDownloads int64             `json:"totalDownloads"`
	TotalDeletes   int64             `json:"totalDeletes"`
	TotalAmountDue float64           `json:"totalAmountDue"`
	Monthly        []CustomerMonthly `json:"monthly"`
}

// Customers operates on the customer resource family.
type Customers struct {
	res       *api.Resource
	transport *api.Transport
}

// List returns customers, optionally filtered by a search term.
func (c *Customers) List(ctx context.Context, q string) ([]Customer, error) {
	var query url.Values
	if q != "" {
		query = url.Values{"q": {q}}
	}
	raws, err := c.res.List(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]Customer, 0, len(raws))
	for _, raw := range raws {
		out = append(out, decodeCustomer(raw))
	}
	return out, nil
}

// Get fetches one customer by code.
func (c *Customers) Get(ctx context.Context, code string) (*Customer, error) {
	raw, err := c.res.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	cust := decodeCustomer(raw)
	return &cust, nil
}

// Exists checks whether a code is taken, for pre-create validation.
func (c *Customers) Exists(ctx context.Context, code string) (bool, error) {
	resolved, err := c.resolveBase(ctx)
	if err != nil {
		return false, err
	}
	resp, err := c.transport.Do(ctx, http.MethodGet, resolved+"/exists", url.Values{"code": {code}}, nil, nil)
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(resp.Body, "exists").Bool(), nil
}

// Create registers a new customer. The backend 409s on duplicate code.
func (c *Customers) Create(ctx context.Context, cust Customer) (*Customer, error) {
	raw, err := c.res.Create(ctx, cust)
	if err != nil {
		return nil, err
	}
	created := decodeCustomer(raw)
	return &created, nil
}

// Update patches fields on an existing customer.
func (c *Customers) Update(ctx context.Context, code string, patch map[string]any) (*Customer, error) {
	raw, err := c.res.Update(ctx, code, patch)
	if err != nil {
		return nil, err
	}
	updated := decodeCustomer(raw)
	return &updated, nil
}

// Remove deletes a customer by code.
func (c *Customers) Remove(ctx context.Context, code string) error {
	return c.res.Remove(ctx, code)
}

// Stats fetches settlement stats, optionally bounded to [fromMonth,
// toMonth] in YYYY-MM form.
func (c *Customers) Stats(ctx context.Context, code, fromMonth, toMonth string) (*CustomerStats, error) {
	resolved, err := c.resolveBase(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	if fromMonth != "" {
		query.Set("fromMonth", fromMonth)
	}
	if toMonth != "" {
		query.Set("toMonth", toMonth)
	}
	resp, err := c.transport.Do(ctx, http.MethodGet, resolved+"/"+url.PathEscape(code)+"/stats", query, nil, nil)
	if err != nil {
		return nil, err
	}
	var stats CustomerStats
	if err := resp.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Customers) resolveBase(ctx context.Context) (string, error) {
	return c.res.ResolveBase(ctx)
}

// decodeCustomer reads a customer record, preferring canonical field
// names and falling back to the aliases older backends emitted
// (id for code, rsRate/cpiRate for the rates).
func decodeCustomer(raw json.RawMessage) Customer {
	var cust Customer
	_ = json.Unmarshal(raw, &cust)
	body := gjson.ParseBytes(raw)
	if cust.Code == "" {
		cust.Code = body.Get("id").String()
	}
	if !body.Get("rsPercent").Exists() {
		cust.RSPercent = body.Get("rsRate").Float()
	}
	if !body.Get("cpiValue").Exists() {
		cust.CPIValue = body.Get("cpiRate").Float()
	}
	return cust
}
