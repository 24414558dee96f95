// ABOUTME: CRUD facade over a resolved resource base
// ABOUTME: List/Get/Create/Update/Remove with per-resource update verb

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Resource exposes CRUD operations for one resource family. The base
// path is resolved lazily on first use and reused afterwards.
type Resource struct {
	transport *Transport
	resolver  *Resolver
	family    Family

	// UpdateVerb is PATCH or PUT; the observed backends disagree per
	// resource, so it is configured rather than assumed.
	UpdateVerb string
}

// NewResource builds a facade for fam. updateVerb defaults to PUT.
func NewResource(t *Transport, r *Resolver, fam Family, updateVerb string) *Resource {
	if updateVerb == "" {
		updateVerb = http.MethodPut
	}
	return &Resource{transport: t, resolver: r, family: fam, UpdateVerb: updateVerb}
}

// Family returns the resource family this facade serves.
func (res *Resource) Family() Family { return res.family }

// ResolveBase resolves (or returns the memoized) base path for this
// resource, for callers that need sub-resource paths under it.
func (res *Resource) ResolveBase(ctx context.Context) (string, error) {
	return res.resolver.Resolve(ctx, res.family)
}

// Transport returns the underlying transport, for sub-resource calls
// that do not fit the plain CRUD shape.
func (res *Resource) Transport() *Transport { return res.transport }

// List fetches the collection and normalizes whatever shape the
// backend wrapped it in.
func (res *Resource) List(ctx context.Context, query url.Values) ([]json.RawMessage, error) {
	base, err := res.resolver.Resolve(ctx, res.family)
	if err != nil {
		return nil, err
	}
	resp, err := res.transport.Do(ctx, http.MethodGet, base, query, nil, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeList(resp.Body), nil
}

// Get fetches a single record by id.
func (res *Resource) Get(ctx context.Context, id string) (json.RawMessage, error) {
	base, err := res.resolver.Resolve(ctx, res.family)
	if err != nil {
		return nil, err
	}
	resp, err := res.transport.Do(ctx, http.MethodGet, base+"/"+url.PathEscape(id), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// Create posts a new record and returns the parsed body. 400 surfaces
// as *ValidationError, 409 as *ConflictError.
func (res *Resource) Create(ctx context.Context, payload any) (json.RawMessage, error) {
	base, err := res.resolver.Resolve(ctx, res.family)
	if err != nil {
		return nil, err
	}
	resp, err := res.transport.Do(ctx, http.MethodPost, base, nil, payload, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// Update modifies a record using the configured verb.
func (res *Resource) Update(ctx context.Context, id string, payload any) (json.RawMessage, error) {
	base, err := res.resolver.Resolve(ctx, res.family)
	if err != nil {
		return nil, err
	}
	resp, err := res.transport.Do(ctx, res.UpdateVerb, base+"/"+url.PathEscape(id), nil, payload, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// Remove deletes a record. 200 and 204 are both success. A second
// delete of the same id may 404 — that surfaces as an error and the
// caller decides whether gone-already counts as done.
func (res *Resource) Remove(ctx context.Context, id string) error {
	base, err := res.resolver.Resolve(ctx, res.family)
	if err != nil {
		return err
	}
	_, err = res.transport.Do(ctx, http.MethodDelete, base+"/"+url.PathEscape(id), nil, nil, nil)
	return err
}
