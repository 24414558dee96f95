// ABOUTME: Notice resource client
// ABOUTME: Categorized announcements with a yyyy.MM.dd display date

package secuone

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// Notice categories accepted by the backend.
const (
	NoticeEvent        = "EVENT"
	NoticeEmergency    = "EMERGENCY"
	NoticeServiceGuide = "SERVICE_GUIDE"
	NoticeUpdate       = "UPDATE"
)

var noticeCategories = map[string]bool{
	NoticeEvent:        true,
	NoticeEmergency:    true,
	NoticeServiceGuide: true,
	NoticeUpdate:       true,
}

// NormalizeNoticeCategory maps free-form input onto a backend
// category, matching the backend's own case-insensitive parsing.
func NormalizeNoticeCategory(v string) (string, error) {
	cat := strings.ToUpper(strings.TrimSpace(v))
	if cat == "" {
		return "", fmt.Errorf("category is required")
	}
	if !noticeCategories[cat] {
		return "", fmt.Errorf("unknown category %q (want EVENT, EMERGENCY, SERVICE_GUIDE or UPDATE)", v)
	}
	return cat, nil
}

// Notice is one announcement.
type Notice struct {
	ID       string `json:"id,omitempty"`
	Author   string `json:"author,omitempty"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Date     string `json:"date,omitempty"` // "yyyy.MM.dd"
	ImageURL string `json:"imageURL,omitempty"`
}

// Notices operates on the notice resource family.
type Notices struct {
	res *api.Resource
}

// List returns notices, newest first per the backend's ordering.
func (n *Notices) List(ctx context.Context) ([]Notice, error) {
	raws, err := n.res.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Notice, 0, len(raws))
	for _, raw := range raws {
		var notice Notice
		if err := json.Unmarshal(raw, &notice); err != nil {
			continue
		}
		out = append(out, notice)
	}
	return out, nil
}

// Get fetches one notice by id.
func (n *Notices) Get(ctx context.Context, id string) (*Notice, error) {
	raw, err := n.res.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var notice Notice
	if err := json.Unmarshal(raw, &notice); err != nil {
		return nil, err
	}
	return &notice, nil
}

// Create publishes a notice. An empty date defaults to today in the
// backend's yyyy.MM.dd display format.
func (n *Notices) Create(ctx context.Context, notice Notice) (*Notice, error) {
	cat, err := NormalizeNoticeCategory(notice.Category)
	if err != nil {
		return nil, err
	}
	notice.Category = cat
	if notice.Date == "" {
		notice.Date = time.Now().Format("2006.01.02")
	}
	raw, err := n.res.Create(ctx, notice)
	if err != nil {
		return nil, err
	}
	var created Notice
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a notice (the backend takes PUT here).
func (n *Notices) Update(ctx context.Context, id string, notice Notice) (*Notice, error) {
	if notice.Category != "" {
		cat, err := NormalizeNoticeCategory(notice.Category)
		if err != nil {
			return nil, err
		}
		notice.Category = cat
	}
	raw, err := n.res.Update(ctx, id, notice)
	if err != nil {
		return nil, err
	}
	var updated Notice
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes a notice by id.
func (n *Notices) Remove(ctx context.Context, id string) error {
	return n.res.Remove(ctx, id)
}
