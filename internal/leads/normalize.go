// Package leads turns pasted or submitted lead data into stored leads and
// manages them through the partnership pipeline.
package leads

import (
	"errors"
	"strings"
	"time"

	"creatorsite/internal/domain"
)

// ErrMissingCompanyName marks a raw lead without a usable company_name.
var ErrMissingCompanyName = errors.New("company_name is required")

// NormalizeContext carries the values a raw lead cannot set for itself.
type NormalizeContext struct {
	Source          domain.LeadSource
	DefaultCategory string
}

// Candidate is a normalized lead that has not been assigned an id or
// timestamps yet.
type Candidate struct {
	CompanyName  string              `json:"company_name"`
	ContactName  string              `json:"contact_name"`
	ContactEmail string              `json:"contact_email"`
	Website      string              `json:"website"`
	Category     domain.LeadCategory `json:"category"`
	Source       domain.LeadSource   `json:"source"`
	Status       domain.LeadStatus   `json:"status"`
	Socials      domain.Socials      `json:"socials"`
	AIPitch      string              `json:"ai_pitch"`
	Notes        string              `json:"notes"`
}

// Normalize maps an untrusted object onto a fully defaulted Candidate. It is
// pure: the same input always yields the same output. Status is always new,
// whatever raw says.
func Normalize(raw map[string]any, nctx NormalizeContext) (Candidate, error) {
	company := stringField(raw, "company_name")
	if company == "" {
		return Candidate{}, ErrMissingCompanyName
	}

	source := nctx.Source
	if !source.Valid() {
		source = domain.SourceManual
	}

	socials, _ := raw["socials"].(map[string]any)

	return Candidate{
		CompanyName:  company,
		ContactName:  stringField(raw, "contact_name"),
		ContactEmail: stringField(raw, "contact_email"),
		Website:      stringField(raw, "website"),
		Category:     resolveCategory(stringField(raw, "category"), nctx.DefaultCategory),
		Source:       source,
		Status:       domain.StatusNew,
		Socials: domain.Socials{
			Instagram: stringField(socials, "instagram"),
			TikTok:    stringField(socials, "tiktok"),
			YouTube:   stringField(socials, "youtube"),
		},
		AIPitch: firstString(raw, "ai_pitch", "why_good_fit"),
		Notes:   firstString(raw, "notes", "suggested_collab"),
	}, nil
}

// Lead stamps the candidate with an id and creation time.
func (c Candidate) Lead(id string, now time.Time) domain.Lead {
	return domain.Lead{
		ID:           id,
		CompanyName:  c.CompanyName,
		ContactName:  c.ContactName,
		ContactEmail: c.ContactEmail,
		Website:      c.Website,
		Category:     c.Category,
		Source:       c.Source,
		Status:       domain.StatusNew,
		Socials:      c.Socials,
		AIPitch:      c.AIPitch,
		Notes:        c.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func resolveCategory(raw, fallback string) domain.LeadCategory {
	if c, ok := domain.ParseCategory(raw); ok {
		return c
	}
	if c, ok := domain.ParseCategory(fallback); ok {
		return c
	}
	return domain.CategoryOther
}

// stringField returns the trimmed string at key, or "" for anything that is
// not a string. A nil map is fine.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}
