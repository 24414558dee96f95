// ABOUTME: Endpoint resolver that probes candidate base paths in order
// ABOUTME: First 2xx wins, result is memoized per resource family

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

// ProbeStyle selects how a candidate base is probed.
type ProbeStyle int

const (
	// ProbeList issues GET {candidate}?limit=1 and requires a JSON
	// array or object body.
	ProbeList ProbeStyle = iota
	// ProbePing issues GET {candidate}/_ping and accepts any 2xx.
	ProbePing
)

// Family is an ordered candidate list for one resource family. Order
// encodes priority; the backend has historically served the same
// resource under several paths.
type Family struct {
	Name       string
	Candidates []string
	Probe      ProbeStyle
}

// Resolver discovers which candidate base actually serves each family.
// Probing is strictly sequential so selection stays deterministic and
// backend load stays minimal. A resolved base is cached until Reset.
type Resolver struct {
	transport    *Transport
	probeTimeout time.Duration

	mu       sync.Mutex
	resolved map[string]string
	group    singleflight.Group
}

// NewResolver builds a resolver over the given transport.
func NewResolver(t *Transport, probeTimeout time.Duration) *Resolver {
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	return &Resolver{
		transport:    t,
		probeTimeout: probeTimeout,
		resolved:     make(map[string]string),
	}
}

// Resolve returns the active base path for fam, probing lazily on
// first use. Concurrent resolves for the same family collapse into a
// single probe pass.
func (r *Resolver) Resolve(ctx context.Context, fam Family) (string, error) {
	r.mu.Lock()
	if base, ok := r.resolved[fam.Name]; ok {
		r.mu.Unlock()
		return base, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(fam.Name, func() (any, error) {
		// Re-check under the group: a previous flight may have
		// resolved while this caller was queued.
		r.mu.Lock()
		if base, ok := r.resolved[fam.Name]; ok {
			r.mu.Unlock()
			return base, nil
		}
		r.mu.Unlock()

		base, err := r.probeAll(ctx, fam)
		if err != nil {
			return "", err
		}
		r.mu.Lock()
		r.resolved[fam.Name] = base
		r.mu.Unlock()
		return base, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Reset forgets the resolved base for a family so the next Resolve
// probes again.
func (r *Resolver) Reset(family string) {
	r.mu.Lock()
	delete(r.resolved, family)
	r.mu.Unlock()
}

// probeAll walks the candidates in order. Candidate failures are
// swallowed here and only here; an auth failure is global and aborts
// the whole resolution.
func (r *Resolver) probeAll(ctx context.Context, fam Family) (string, error) {
	var lastErr error
	for _, candidate := range fam.Candidates {
		err := r.probeOne(ctx, candidate, fam.Probe)
		if err == nil {
			slog.Debug("resolved endpoint", "family", fam.Name, "base", candidate)
			return candidate, nil
		}
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		slog.Debug("endpoint candidate failed", "family", fam.Name, "candidate", candidate, "error", err)
		lastErr = err
	}
	return "", &NoEndpointError{Family: fam.Name, Candidates: fam.Candidates, LastErr: lastErr}
}

func (r *Resolver) probeOne(ctx context.Context, candidate string, style ProbeStyle) error {
	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	switch style {
	case ProbePing:
		_, err := r.transport.Do(ctx, http.MethodGet, candidate+"/_ping", nil, nil, nil)
		return err
	default:
		resp, err := r.transport.Do(ctx, http.MethodGet, candidate, url.Values{"limit": {"1"}}, nil, nil)
		if err != nil {
			return err
		}
		parsed := gjson.ParseBytes(resp.Body)
		if !parsed.IsArray() && !parsed.IsObject() {
			return errors.New("probe body is not JSON")
		}
		return nil
	}
}
