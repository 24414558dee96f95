// ABOUTME: Customer contact resource client
// ABOUTME: Upsert-style writes, per-customer listing and deletes, self-service me endpoints

package secuone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// Contact is a person attached to a customer account.
type Contact struct {
	ID           int64  `json:"id,omitempty"`
	CustomerCode string `json:"customerCode"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Note         string `json:"note,omitempty"`
}

// ContactUpsert is the write payload. SendInvite triggers an invite
// mail when an email is present.
type ContactUpsert struct {
	CustomerCode string `json:"customerCode"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Note         string `json:"note,omitempty"`
	SendInvite   bool   `json:"sendInvite,omitempty"`
}

// Contacts operates on the contacts resource family.
type Contacts struct {
	res       *api.Resource
	transport *api.Transport
}

// List returns contacts, optionally restricted to one customer code.
func (c *Contacts) List(ctx context.Context, customerCode string) ([]Contact, error) {
	var query url.Values
	if customerCode != "" {
		query = url.Values{"customerCode": {customerCode}}
	}
	raws, err := c.res.List(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]Contact, 0, len(raws))
	for _, raw := range raws {
		var contact Contact
		if err := json.Unmarshal(raw, &contact); err != nil {
			continue
		}
		out = append(out, contact)
	}
	return out, nil
}

// Get fetches one contact by id.
func (c *Contacts) Get(ctx context.Context, id int64) (*Contact, error) {
	raw, err := c.res.Get(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Upsert creates or updates a contact. The backend keys on
// customerCode plus email.
func (c *Contacts) Upsert(ctx context.Context, payload ContactUpsert) (*Contact, error) {
	base, err := c.res.ResolveBase(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.transport.Do(ctx, http.MethodPost, base+"/upsert", nil, payload, nil)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := resp.Decode(&contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Remove deletes one contact by id.
func (c *Contacts) Remove(ctx context.Context, id int64) error {
	return c.res.Remove(ctx, strconv.FormatInt(id, 10))
}

// RemoveByCustomer deletes every contact of a customer.
func (c *Contacts) RemoveByCustomer(ctx context.Context, customerCode string) error {
	base, err := c.res.ResolveBase(ctx)
	if err != nil {
		return err
	}
	_, err = c.transport.Do(ctx, http.MethodDelete, base+"/by-customer/"+url.PathEscape(customerCode), nil, nil, nil)
	return err
}

// Me returns the contact record of the logged-in customer principal.
func (c *Contacts) Me(ctx context.Context) (*Contact, error) {
	base, err := c.res.ResolveBase(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.transport.Do(ctx, http.MethodGet, base+"/me", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := resp.Decode(&contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateMe updates the logged-in customer principal's own record.
func (c *Contacts) UpdateMe(ctx context.Context, name, phone, email string) (*Contact, error) {
	base, err := c.res.ResolveBase(ctx)
	if err != nil {
		return nil, err
	}
	body := map[string]string{"name": name, "phone": phone, "email": email}
	resp, err := c.transport.Do(ctx, http.MethodPut, base+"/me", nil, body, nil)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := resp.Decode(&contact); err != nil {
		return nil, err
	}
	return &contact, nil
}
