// ABOUTME: Security event client for reporting and browsing the event feed
// ABOUTME: Events are tenant-resolved server-side from package name or domain

package secuone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// Known security event types.
const (
	EventMalware = "MALWARES_APP"
	EventRooting = "ROOTING_DETECTED"
	EventRemote  = "REMOTE_CONTROL_APP"
)

// EventReport is a device-side security event submission. The backend
// maps packageName or domain to a customer; reports that resolve to no
// customer are rejected with a validation error.
type EventReport struct {
	PackageName string         `json:"packageName,omitempty"`
	Domain      string         `json:"domain,omitempty"`
	DeviceID    string         `json:"deviceId,omitempty"`
	EventType   string         `json:"eventType"`
	Data        map[string]any `json:"data,omitempty"`
}

// SecurityEvent is one row from the event feed.
type SecurityEvent struct {
	ID           int64          `json:"id,omitempty"`
	CustomerCode string         `json:"customerCode,omitempty"`
	DeviceID     string         `json:"deviceId,omitempty"`
	EventType    string         `json:"eventType"`
	Data         map[string]any `json:"data,omitempty"`
	CreatedAt    string         `json:"createdAt,omitempty"`
}

// Events talks to the security event endpoints. Fixed paths.
type Events struct {
	transport *api.Transport
}

// Report submits one event.
func (e *Events) Report(ctx context.Context, report EventReport) error {
	_, err := e.transport.Do(ctx, http.MethodPost, "/api/events/report", nil, report, nil)
	return err
}

// Feed returns recent security events, optionally bounded by an ISO
// timestamp and a row limit.
func (e *Events) Feed(ctx context.Context, since string, limit int) ([]SecurityEvent, error) {
	query := url.Values{}
	if since != "" {
		query.Set("since", since)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	resp, err := e.transport.Do(ctx, http.MethodGet, "/api/events/security", query, nil, nil)
	if err != nil {
		return nil, err
	}
	raws := api.NormalizeList(resp.Body)
	out := make([]SecurityEvent, 0, len(raws))
	for _, raw := range raws {
		var event SecurityEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}
