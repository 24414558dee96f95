// ABOUTME: PolarLetter resource client
// ABOUTME: Editorial letters with author, content and thumbnail

package secuone

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/polarisoffice/secuone-console/internal/api"
)

// PolarLetter is one editorial letter.
type PolarLetter struct {
	ID         string `json:"id,omitempty"`
	Author     string `json:"author,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
	URL        string `json:"url,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
}

// PolarLetters operates on the polar letter resource family.
type PolarLetters struct {
	res *api.Resource
}

// List returns all letters.
func (p *PolarLetters) List(ctx context.Context) ([]PolarLetter, error) {
	raws, err := p.res.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]PolarLetter, 0, len(raws))
	for _, raw := range raws {
		var letter PolarLetter
		if err := json.Unmarshal(raw, &letter); err != nil {
			continue
		}
		out = append(out, letter)
	}
	return out, nil
}

// Get fetches one letter by id.
func (p *PolarLetters) Get(ctx context.Context, id string) (*PolarLetter, error) {
	raw, err := p.res.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var letter PolarLetter
	if err := json.Unmarshal(raw, &letter); err != nil {
		return nil, err
	}
	return &letter, nil
}

// Create publishes a letter. The backend answers text/plain with the
// new id.
func (p *PolarLetters) Create(ctx context.Context, letter PolarLetter) (string, error) {
	base, err := p.res.ResolveBase(ctx)
	if err != nil {
		return "", err
	}
	resp, err := p.res.Transport().Do(ctx, http.MethodPost, base, nil, letter, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Update replaces a letter (PUT).
func (p *PolarLetters) Update(ctx context.Context, id string, letter PolarLetter) error {
	_, err := p.res.Update(ctx, id, letter)
	return err
}

// Remove deletes a letter by id.
func (p *PolarLetters) Remove(ctx context.Context, id string) error {
	return p.res.Remove(ctx, id)
}
