// ABOUTME: Typed API client for the SecuOne manager backend
// ABOUTME: Bundles transport, resolver and per-resource facades

package secuone

import (
	"context"
	"net/http"
	"time"

	"github.com/polarisoffice/secuone-console/internal/api"
	"github.com/polarisoffice/secuone-console/internal/config"
	"github.com/polarisoffice/secuone-console/internal/session"
)

// Candidate bases per resource family, highest priority first. The
// backend has served each resource under several paths over time;
// once it settles on one, these collapse to a single entry.
var (
	customersFamily = api.Family{
		Name: "customers",
		Candidates: []string{
			"/api/admin/customers",
			"/api/customers",
			"/admin/customers",
			"/customers/api",
		},
		Probe: api.ProbeList,
	}
	noticesFamily = api.Family{
		Name:       "notices",
		Candidates: []string{"/api/notices", "/notices", "/api/notice", "/notice"},
		Probe:      api.ProbePing,
	}
	newslettersFamily = api.Family{
		Name:       "newsletters",
		Candidates: []string{"/newsletters", "/secu-news", "/api/newsletters", "/api/secu-news"},
		Probe:      api.ProbePing,
	}
	directAdsFamily = api.Family{
		Name: "directads",
		Candidates: []string{
			"/api/directads",
			"/directads",
			"/api/polarisdirectads",
			"/api/polaris_direct_ads",
		},
		Probe: api.ProbeList,
	}
	polarLettersFamily = api.Family{
		Name:       "polarletters",
		Candidates: []string{"/polarletters", "/api/polarletters"},
		Probe:      api.ProbePing,
	}
	contactsFamily = api.Family{
		Name:       "contacts",
		Candidates: []string{"/api/contacts"},
		Probe:      api.ProbeList,
	}
)

// Client is the console's view of the backend. All calls go through
// the authenticated transport; list/CRUD calls additionally go through
// the endpoint resolver.
type Client struct {
	transport *api.Transport
	resolver  *api.Resolver
	store     *session.Store

	Customers    *Customers
	Contacts     *Contacts
	Notices      *Notices
	Newsletters  *Newsletters
	DirectAds    *DirectAds
	PolarLetters *PolarLetters
	Push         *Push
	Events       *Events
	Auth         *Auth
}

// New builds a client from configuration and the credential store.
func New(cfg *config.Config, store *session.Store) (*Client, error) {
	transport, err := api.NewTransport(cfg.APIURL, cfg.BasePath, store, time.Duration(cfg.RequestTimeout)*time.Second)
	if err != nil {
		return nil, err
	}
	resolver := api.NewResolver(transport, time.Duration(cfg.ProbeTimeout)*time.Second)
	return newClient(transport, resolver, store), nil
}

func newClient(transport *api.Transport, resolver *api.Resolver, store *session.Store) *Client {
	c := &Client{transport: transport, resolver: resolver, store: store}
	c.Customers = &Customers{res: api.NewResource(transport, resolver, customersFamily, http.MethodPatch), transport: transport}
	c.Contacts = &Contacts{res: api.NewResource(transport, resolver, contactsFamily, http.MethodPut), transport: transport}
	c.Notices = &Notices{res: api.NewResource(transport, resolver, noticesFamily, http.MethodPut)}
	c.Newsletters = &Newsletters{res: api.NewResource(transport, resolver, newslettersFamily, http.MethodPut)}
	c.DirectAds = &DirectAds{res: api.NewResource(transport, resolver, directAdsFamily, http.MethodPut), transport: transport}
	c.PolarLetters = &PolarLetters{res: api.NewResource(transport, resolver, polarLettersFamily, http.MethodPut)}
	c.Push = &Push{transport: transport}
	c.Events = &Events{transport: transport}
	c.Auth = &Auth{transport: transport, store: store}
	return c
}

// Resolver exposes the endpoint resolver, mainly so the TUI can reset
// a family after a navigation-style reload.
func (c *Client) Resolver() *api.Resolver { return c.resolver }

// HealthStatus is one resource family's resolution outcome.
type HealthStatus struct {
	Family string `json:"family"`
	Base   string `json:"base,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Health probes every resolvable family and reports where each one
// currently lives. Fixed-path surfaces (auth, push, events) are not
// probed; any of the families reaching the origin proves connectivity.
func (c *Client) Health(ctx context.Context) []HealthStatus {
	families := []api.Family{
		customersFamily,
		contactsFamily,
		noticesFamily,
		newslettersFamily,
		directAdsFamily,
		polarLettersFamily,
	}
	out := make([]HealthStatus, 0, len(families))
	for _, fam := range families {
		status := HealthStatus{Family: fam.Name}
		base, err := c.resolver.Resolve(ctx, fam)
		if err != nil {
			status.Error = err.Error()
		} else {
			status.Base = base
		}
		out = append(out, status)
	}
	return out
}
