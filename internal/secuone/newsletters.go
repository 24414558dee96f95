// ABOUTME: Newsletter resource client
// ABOUTME: Create/list/get only; the backend exposes no update endpoint

package secuone

import (
	"context"
	"encoding/json"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// Newsletter is one published newsletter entry.
type Newsletter struct {
	ID        string `json:"id,omitempty"`
	Category  string `json:"category,omitempty"`
	Date      string `json:"date,omitempty"` // "2006-01-02", sortable as text
	Thumbnail string `json:"thumbnail,omitempty"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

// Newsletters operates on the newsletter resource family.
type Newsletters struct {
	res *api.Resource
}

// List returns all newsletter entries.
func (n *Newsletters) List(ctx context.Context) ([]Newsletter, error) {
	raws, err := n.res.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Newsletter, 0, len(raws))
	for _, raw := range raws {
		var entry Newsletter
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// Get fetches one entry by id.
func (n *Newsletters) Get(ctx context.Context, id string) (*Newsletter, error) {
	raw, err := n.res.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var entry Newsletter
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create publishes a newsletter entry.
func (n *Newsletters) Create(ctx context.Context, entry Newsletter) (*Newsletter, error) {
	raw, err := n.res.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	var created Newsletter
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Remove deletes an entry by id.
func (n *Newsletters) Remove(ctx context.Context, id string) error {
	return n.res.Remove(ctx, id)
}
