package domain

import "time"

// LeadPatch is a partial update of a Lead. Nil fields are left untouched.
// id, source and created_at are not patchable.
type LeadPatch struct {
	CompanyName  *string       `json:"company_name,omitempty"`
	ContactName  *string       `json:"contact_name,omitempty"`
	ContactEmail *string       `json:"contact_email,omitempty"`
	Website      *string       `json:"website,omitempty"`
	Category     *LeadCategory `json:"category,omitempty"`
	Status       *LeadStatus   `json:"status,omitempty"`
	Socials      *Socials      `json:"socials,omitempty"`
	AIPitch      *string       `json:"ai_pitch,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

// Apply shallow-merges the patch onto l and stamps updated_at with now,
// whether or not any field changed.
func (p LeadPatch) Apply(l *Lead, now time.Time) {
	if p.CompanyName != nil {
		l.CompanyName = *p.CompanyName
	}
	if p.ContactName != nil {
		l.ContactName = *p.ContactName
	}
	if p.ContactEmail != nil {
		l.ContactEmail = *p.ContactEmail
	}
	if p.Website != nil {
		l.Website = *p.Website
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Socials != nil {
		l.Socials = *p.Socials
	}
	if p.AIPitch != nil {
		l.AIPitch = *p.AIPitch
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	l.UpdatedAt = now
}

// EmailPatch is a partial update of an Email set by the operator.
type EmailPatch struct {
	Subject *string    `json:"subject,omitempty"`
	Body    *string    `json:"body,omitempty"`
	Type    *EmailType `json:"type,omitempty"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
	Opened  *bool      `json:"opened,omitempty"`
	Replied *bool      `json:"replied,omitempty"`
}

// Apply merges the patch onto e.
func (p EmailPatch) Apply(e *Email) {
	if p.Subject != nil {
		e.Subject = *p.Subject
	}
	if p.Body != nil {
		e.Body = *p.Body
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.SentAt != nil {
		sentAt := *p.SentAt
		e.SentAt = &sentAt
	}
	if p.Opened != nil {
		e.Opened = *p.Opened
	}
	if p.Replied != nil {
		e.Replied = *p.Replied
	}
}
