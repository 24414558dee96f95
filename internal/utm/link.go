// ABOUTME: UTM referral link builder for Play Store install attribution
// ABOUTME: Normalizes parameters and encodes the referrer query exactly once

package utm

import (
	"fmt"
	"net/url"
	"strings"
)

// Defaults used when medium or campaign are left blank.
const (
	DefaultMedium   = "wta"
	DefaultCampaign = "vaccine"

	playDetailsURL = "https://play.google.com/store/apps/details"
)

// Normalize lowercases, collapses whitespace runs to underscores and
// strips everything outside [a-z0-9_-], keeping report parameters
// readable and consistent.
func Normalize(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	var b strings.Builder
	inSpace := false
	for _, r := range v {
		switch {
		case r == ' ' || r == '\t':
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			b.WriteRune(r)
			inSpace = false
		default:
			inSpace = false
		}
	}
	return b.String()
}

// Link is one generated referral link.
type Link struct {
	Company string
	URL     string
}

// BuildPlayURL composes the Play Store URL. The company code doubles
// as utm_source and rides along as a plain company key so the app can
// read it without parsing UTM conventions. The referrer value is
// URL-encoded once; the Play Store decodes it once.
func BuildPlayURL(pkg, company, medium, campaign string) (string, error) {
	company = Normalize(company)
	if company == "" {
		return "", fmt.Errorf("company code is required")
	}
	medium = Normalize(medium)
	if medium == "" {
		medium = DefaultMedium
	}
	campaign = Normalize(campaign)
	if campaign == "" {
		campaign = DefaultCampaign
	}

	referrer := url.Values{
		"utm_source":   {company},
		"utm_medium":   {medium},
		"utm_campaign": {campaign},
		"company":      {company},
	}

	u, err := url.Parse(playDetailsURL)
	if err != nil {
		return "", err
	}
	q := url.Values{
		"id":       {pkg},
		"referrer": {referrer.Encode()},
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// BuildBulk generates one link per company line, skipping blanks.
// Lines that normalize to nothing are reported as errors so a typo
// does not silently vanish from a campaign sheet.
func BuildBulk(pkg string, companies []string, medium, campaign string) ([]Link, error) {
	var links []Link
	for _, company := range companies {
		company = strings.TrimSpace(company)
		if company == "" {
			continue
		}
		u, err := BuildPlayURL(pkg, company, medium, campaign)
		if err != nil {
			return nil, fmt.Errorf("company %q: %w", company, err)
		}
		links = append(links, Link{Company: Normalize(company), URL: u})
	}
	return links, nil
}
