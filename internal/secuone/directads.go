// ABOUTME: Direct ad placement resource client
// ABOUTME: CRUD plus impression/click counters and per-ad metrics

package secuone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// Ad placement types.
const (
	AdBanner   = "BANNER"
	AdBottom   = "BOTTOM"
	AdEvent    = "EVENT"
	AdEventFab = "EVENT_FAB"
)

// DirectAd is one ad placement.
type DirectAd struct {
	ID              string         `json:"id,omitempty"`
	AdType          string         `json:"adType"`
	AdvertiserName  string         `json:"advertiserName"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	ImageURL        string         `json:"imageUrl"`
	TargetURL       string         `json:"targetUrl"`
	Status          string         `json:"status,omitempty"`
	Locales         []string       `json:"locales,omitempty"`
	MinAppVersion   string         `json:"minAppVersion,omitempty"`
	MaxAppVersion   string         `json:"maxAppVersion,omitempty"`
	PublishedAt     *time.Time     `json:"publishedAt,omitempty"`
	StartAt         *time.Time     `json:"startAt,omitempty"`
	EndAt           *time.Time     `json:"endAt,omitempty"`
	CreatedAt       *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`
	ViewCount       int64          `json:"viewCount,omitempty"`
	ClickCount      int64          `json:"clickCount,omitempty"`
	Meta            map[string]any `json:"meta,omitempty"`
}

// AdMetrics is the per-ad counter snapshot.
type AdMetrics struct {
	ID         string `json:"id"`
	ViewCount  int64  `json:"viewCount"`
	ClickCount int64  `json:"clickCount"`
}

// DirectAds operates on the direct ad resource family.
type DirectAds struct {
	res       *api.Resource
	transport *api.Transport
}

// List returns ad placements; limit caps the page (the backend default
// is generous but unbounded lists render badly in a terminal).
func (d *DirectAds) List(ctx context.Context, limit int) ([]DirectAd, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	raws, err := d.res.List(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]DirectAd, 0, len(raws))
	for _, raw := range raws {
		var ad DirectAd
		if err := json.Unmarshal(raw, &ad); err != nil {
			continue
		}
		out = append(out, ad)
	}
	return out, nil
}

// Get fetches one ad by id.
func (d *DirectAds) Get(ctx context.Context, id string) (*DirectAd, error) {
	raw, err := d.res.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var ad DirectAd
	if err := json.Unmarshal(raw, &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}

// Create registers an ad. The backend answers text/plain with the new
// id, so the id comes back as a string rather than a record.
func (d *DirectAds) Create(ctx context.Context, ad DirectAd) (string, error) {
	base, err := d.res.ResolveBase(ctx)
	if err != nil {
		return "", err
	}
	resp, err := d.transport.Do(ctx, http.MethodPost, base, nil, ad, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Update replaces an ad (PUT).
func (d *DirectAds) Update(ctx context.Context, id string, ad DirectAd) error {
	_, err := d.res.Update(ctx, id, ad)
	return err
}

// Remove deletes an ad by id.
func (d *DirectAds) Remove(ctx context.Context, id string) error {
	return d.res.Remove(ctx, id)
}

// RecordImpression bumps the ad's view counter.
func (d *DirectAds) RecordImpression(ctx context.Context, id string) error {
	return d.counter(ctx, id, "impression")
}

// RecordClick bumps the ad's click counter.
func (d *DirectAds) RecordClick(ctx context.Context, id string) error {
	return d.counter(ctx, id, "click")
}

func (d *DirectAds) counter(ctx context.Context, id, kind string) error {
	base, err := d.res.ResolveBase(ctx)
	if err != nil {
		return err
	}
	_, err = d.transport.Do(ctx, http.MethodPost, base+"/"+url.PathEscape(id)+"/"+kind, nil, nil, nil)
	return err
}

// Metrics fetches the counter snapshot for one ad.
func (d *DirectAds) Metrics(ctx context.Context, id string) (*AdMetrics, error) {
	base, err := d.res.ResolveBase(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := d.transport.Do(ctx, http.MethodGet, base+"/"+url.PathEscape(id)+"/metrics", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	var metrics AdMetrics
	if err := resp.Decode(&metrics); err != nil {
		return nil, err
	}
	if metrics.ID == "" {
		metrics.ID = id
	}
	return &metrics, nil
}
