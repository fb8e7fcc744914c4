// Package prompts renders the instructions the operator pastes into an
// external chat assistant, and splits the email drafts pasted back.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"creatorsite/internal/domain"
	apperrors "creatorsite/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	// DefaultLeadCount is used when a discovery prompt asks for zero leads.
	DefaultLeadCount = 25
	maxLeadCount     = 100
)

// Kind names a prompt template.
type Kind string

const (
	KindDiscovery  Kind = "discovery"
	KindCompetitor Kind = "competitor"
	KindPitch      Kind = "pitch"
	KindOutreach   Kind = "outreach"
	KindFollowUp   Kind = "followup"
)

// Engine renders prompts for one creator profile.
type Engine struct {
	profile   *Profile
	templates *template.Template
}

// NewEngine parses the embedded templates.
func NewEngine(profile *Profile) (*Engine, error) {
	tmpl, err := template.New("prompts").Funcs(template.FuncMap{
		"join":       strings.Join,
		"jsonString": jsonString,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return &Engine{profile: profile, templates: tmpl}, nil
}

// Profile returns the creator profile the engine renders with.
func (e *Engine) Profile() *Profile {
	return e.profile
}

// DefaultSubject is the subject given to drafts pasted without one.
func (e *Engine) DefaultSubject() string {
	return "Partnership Opportunity with " + e.profile.Name
}

type templateData struct {
	Profile         *Profile
	Category        string
	Count           int
	Brand           string
	FitHint         string
	Company         string
	Website         string
	ContactName     string
	Pitch           string
	FollowUpNumber  int
	OriginalSubject string
}

// LeadDiscovery asks for count brands in category as a JSON array of leads.
// A count of zero means DefaultLeadCount.
func (e *Engine) LeadDiscovery(category string, count int) (string, error) {
	c, ok := domain.ParseCategory(category)
	if !ok {
		return "", apperrors.Validation("category", fmt.Sprintf("unknown category %q", category))
	}
	if count == 0 {
		count = DefaultLeadCount
	}
	if count < 1 || count > maxLeadCount {
		return "", apperrors.Validation("count", fmt.Sprintf("count must be between 1 and %d", maxLeadCount))
	}
	return e.render("discovery.tmpl", templateData{
		Category: string(c),
		Count:    count,
		FitHint:  fmt.Sprintf("Brief 1-2 sentence explanation of why this brand aligns with %s's aesthetic and audience", e.profile.FirstName),
	})
}

// CompetitorLookup asks for brands similar to brand as a JSON array of leads.
func (e *Engine) CompetitorLookup(brand string) (string, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return "", apperrors.Validation("brand", "brand is required")
	}
	categories := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		categories[i] = string(c)
	}
	return e.render("competitor.tmpl", templateData{
		Brand:    brand,
		Category: "one of: " + strings.Join(categories, ", "),
		FitHint:  fmt.Sprintf("Similar to %s because...", brand),
	})
}

// Pitch asks for a short partnership pitch to company.
func (e *Engine) Pitch(company, category, website string) (string, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return "", apperrors.Validation("company", "company is required")
	}
	if c, ok := domain.ParseCategory(category); ok {
		category = string(c)
	} else {
		category = string(domain.CategoryOther)
	}
	return e.render("pitch.tmpl", templateData{
		Company:  company,
		Category: category,
		Website:  strings.TrimSpace(website),
	})
}

// OutreachInput describes the first email to a brand.
type OutreachInput struct {
	Company     string `json:"company"`
	ContactName string `json:"contact_name"`
	Pitch       string `json:"pitch"`
	Category    string `json:"category"`
}

// Outreach asks for a cold email built on a pitch.
func (e *Engine) Outreach(in OutreachInput) (string, error) {
	company := strings.TrimSpace(in.Company)
	if company == "" {
		return "", apperrors.Validation("company", "company is required")
	}
	pitch := strings.TrimSpace(in.Pitch)
	if pitch == "" {
		return "", apperrors.Validation("pitch", "pitch is required")
	}
	return e.render("outreach.tmpl", templateData{
		Company:     company,
		ContactName: strings.TrimSpace(in.ContactName),
		Pitch:       pitch,
		Category:    strings.TrimSpace(in.Category),
	})
}

// FollowUp asks for follow-up email number 1 or 2.
func (e *Engine) FollowUp(company string, number int, originalSubject string) (string, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return "", apperrors.Validation("company", "company is required")
	}
	if number != 1 && number != 2 {
		return "", apperrors.Validation("number", "follow-up number must be 1 or 2")
	}
	return e.render("followup.tmpl", templateData{
		Company:         company,
		FollowUpNumber:  number,
		OriginalSubject: strings.TrimSpace(originalSubject),
	})
}

func (e *Engine) render(name string, data templateData) (string, error) {
	data.Profile = e.profile
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// jsonString escapes s for use inside a JSON string literal.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}

var subjectLine = regexp.MustCompile(`(?i)subject:[ \t]*([^\r\n]*)`)

// ParseEmailDraft splits a pasted "SUBJECT: ..." draft into subject and body.
// Only the subject line is removed; text around it stays in the body. Without
// a subject line the whole text is the body and fallbackSubject is used.
func ParseEmailDraft(text, fallbackSubject string) (subject, body string) {
	text = strings.TrimSpace(text)
	loc := subjectLine.FindStringSubmatchIndex(text)
	if loc == nil {
		return fallbackSubject, text
	}
	subject = strings.TrimSpace(text[loc[2]:loc[3]])
	if subject == "" {
		subject = fallbackSubject
	}
	before := strings.TrimSpace(text[:loc[0]])
	after := strings.TrimSpace(text[loc[1]:])
	switch {
	case before == "":
		return subject, after
	case after == "":
		return subject, before
	}
	return subject, before + "\n" + after
}
