package leads

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"creatorsite/internal/domain"
	"creatorsite/internal/metrics"
	"creatorsite/internal/prompts"
	"creatorsite/internal/store"
	apperrors "creatorsite/pkg/errors"
)

const (
	unknownCompany       = "Unknown Company"
	inboundNotesPrefix   = "Inbound inquiry: "
	defaultDraftSubject  = "Partnership Opportunity"
	maxContactNameLength = 100
	maxMessageLength     = 5000
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Manager owns every lead, email and contact operation on top of a store.
type Manager struct {
	store        store.Store
	now          func() time.Time
	newID        func() string
	draftSubject string
	logger       *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for created_at and sent_at.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithDraftSubject sets the subject used when a pasted draft has none.
func WithDraftSubject(subject string) Option {
	return func(m *Manager) { m.draftSubject = subject }
}

// NewManager creates a lead manager over s.
func NewManager(s store.Store, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:        s,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.NewString() },
		draftSubject: defaultDraftSubject,
		logger:       logger.Named("leads"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateInput is a single lead typed in by the operator.
type CreateInput struct {
	Source          domain.LeadSource
	DefaultCategory string
	Fields          map[string]any
}

// ImportResult is the outcome of a committed bulk import.
type ImportResult struct {
	Count int           `json:"count"`
	Leads []domain.Lead `json:"leads"`
}

// Stats counts leads per status. Every status is present, zero or not.
type Stats struct {
	Total    int                       `json:"total"`
	ByStatus map[domain.LeadStatus]int `json:"by_status"`
}

// Create normalizes and stores one lead. Source defaults to manual.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*domain.Lead, error) {
	source, err := resolveSource(in.Source, domain.SourceManual)
	if err != nil {
		return nil, err
	}

	c, err := Normalize(in.Fields, NormalizeContext{Source: source, DefaultCategory: in.DefaultCategory})
	if err != nil {
		m.logger.Info("Create rejected", zap.Error(err))
		return nil, apperrors.Validation("company_name", "company_name is required")
	}

	lead := c.Lead(m.newID(), m.now())
	if err := m.store.CreateLead(ctx, &lead); err != nil {
		m.logger.Error("Create failed: store error", zap.Error(err))
		return nil, err
	}

	metrics.RecordLeadsCreated(string(lead.Source), 1)
	m.logger.Info("Lead created",
		zap.String("id", lead.ID),
		zap.String("company", lead.CompanyName),
		zap.String("source", string(lead.Source)),
	)
	return &lead, nil
}

// Preview parses pasted text without storing anything.
func (m *Manager) Preview(text string, source domain.LeadSource) ([]Candidate, error) {
	source, err := resolveSource(source, domain.SourceAISearch)
	if err != nil {
		return nil, err
	}
	return Parse(text, NormalizeContext{Source: source})
}

// PreviewValues is Preview for already decoded lead objects.
func (m *Manager) PreviewValues(values []any, source domain.LeadSource) ([]Candidate, error) {
	source, err := resolveSource(source, domain.SourceAISearch)
	if err != nil {
		return nil, err
	}
	return ParseValues(values, NormalizeContext{Source: source})
}

// Import parses pasted text and commits every lead in one store write, or
// none of them.
func (m *Manager) Import(ctx context.Context, source domain.LeadSource, text string) (*ImportResult, error) {
	source, err := resolveSource(source, domain.SourceAISearch)
	if err != nil {
		return nil, err
	}

	candidates, err := Parse(text, NormalizeContext{Source: source})
	if err != nil {
		metrics.RecordLeadImport("rejected")
		m.logger.Info("Import rejected", zap.Error(err))
		return nil, err
	}
	return m.commit(ctx, source, candidates)
}

// ImportValues commits already decoded lead objects with the same
// all-or-nothing policy as Import.
func (m *Manager) ImportValues(ctx context.Context, source domain.LeadSource, values []any) (*ImportResult, error) {
	source, err := resolveSource(source, domain.SourceAISearch)
	if err != nil {
		return nil, err
	}

	candidates, err := ParseValues(values, NormalizeContext{Source: source})
	if err != nil {
		metrics.RecordLeadImport("rejected")
		m.logger.Info("Import rejected", zap.Error(err))
		return nil, err
	}
	return m.commit(ctx, source, candidates)
}

func (m *Manager) commit(ctx context.Context, source domain.LeadSource, candidates []Candidate) (*ImportResult, error) {
	if len(candidates) == 0 {
		metrics.RecordLeadImport("rejected")
		return nil, apperrors.Validation("leads", "no leads provided")
	}

	now := m.now()
	leads := make([]domain.Lead, len(candidates))
	for i, c := range candidates {
		leads[i] = c.Lead(m.newID(), now)
	}

	if err := m.store.BulkCreateLeads(ctx, leads); err != nil {
		metrics.RecordLeadImport("failed")
		m.logger.Error("Import failed: store error", zap.Int("count", len(leads)), zap.Error(err))
		return nil, err
	}

	metrics.RecordLeadImport("committed")
	metrics.RecordLeadsCreated(string(source), len(leads))
	m.logger.Info("Import committed", zap.Int("count", len(leads)), zap.String("source", string(source)))
	return &ImportResult{Count: len(leads), Leads: leads}, nil
}

// Get returns one lead.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := m.store.GetLead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("lead", id)
	}
	return lead, err
}

// SetStatus moves a lead to status. Any status may follow any other.
func (m *Manager) SetStatus(ctx context.Context, id string, status domain.LeadStatus) (*domain.Lead, error) {
	return m.Update(ctx, id, domain.LeadPatch{Status: &status})
}

// Update applies a partial update. status must be a known status and
// company_name may not be blanked; an unknown category becomes other.
func (m *Manager) Update(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalidStatus(*patch.Status)
	}
	if patch.CompanyName != nil {
		company := strings.TrimSpace(*patch.CompanyName)
		if company == "" {
			return nil, apperrors.Validation("company_name", "company_name is required")
		}
		patch.CompanyName = &company
	}
	if patch.Category != nil {
		category, ok := domain.ParseCategory(string(*patch.Category))
		if !ok {
			category = domain.CategoryOther
		}
		patch.Category = &category
	}

	lead, err := m.store.UpdateLead(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		m.logger.Info("Update skipped: lead not found", zap.String("id", id))
		return nil, apperrors.NotFound("lead", id)
	}
	if err != nil {
		m.logger.Error("Update failed: store error", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if patch.Status != nil {
		metrics.RecordStatusChange(string(*patch.Status))
		m.logger.Info("Lead status changed", zap.String("id", id), zap.String("status", string(*patch.Status)))
	}
	return lead, nil
}

// Delete removes a lead and its emails. It reports whether anything was
// removed.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := m.store.DeleteLead(ctx, id)
	if err != nil {
		m.logger.Error("Delete failed: store error", zap.String("id", id), zap.Error(err))
		return false, err
	}
	m.logger.Info("Lead delete", zap.String("id", id), zap.Bool("removed", removed))
	return removed, nil
}

// List returns every lead, newest first.
func (m *Manager) List(ctx context.Context) ([]domain.Lead, error) {
	leads, err := m.store.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(leads)
	return leads, nil
}

// Filter returns leads with the given status whose company name or contact
// email contains search, newest first. A status of "" or "all" matches every
// status; an empty search matches everything.
func (m *Manager) Filter(ctx context.Context, status string, search string) ([]domain.Lead, error) {
	var (
		leads []domain.Lead
		err   error
	)
	if status == "" || status == "all" {
		leads, err = m.store.ListLeads(ctx)
	} else {
		st := domain.LeadStatus(status)
		if !st.Valid() {
			return nil, invalidStatus(st)
		}
		leads, err = m.store.ListLeadsByStatus(ctx, st)
	}
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Lead, 0, len(leads))
	for i := range leads {
		if leads[i].MatchesSearch(search) {
			matched = append(matched, leads[i])
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

// Stats recomputes the per-status counts on every call.
func (m *Manager) Stats(ctx context.Context) (*Stats, error) {
	leads, err := m.store.ListLeads(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: make(map[domain.LeadStatus]int, len(domain.Statuses))}
	for _, s := range domain.Statuses {
		stats.ByStatus[s] = 0
	}
	for _, l := range leads {
		stats.ByStatus[l.Status]++
		stats.Total++
	}
	return stats, nil
}

// EmailInput is a draft saved against a lead. When Draft is set and Subject
// and Body are empty, the draft text is split into subject and body.
type EmailInput struct {
	LeadID  string           `json:"lead_id"`
	Subject string           `json:"subject"`
	Body    string           `json:"body"`
	Type    domain.EmailType `json:"type"`
	Draft   string           `json:"draft"`
}

// EmailUpdate is what the operator can change on a saved draft. Sent marks
// the draft as sent now.
type EmailUpdate struct {
	Subject *string           `json:"subject"`
	Body    *string           `json:"body"`
	Type    *domain.EmailType `json:"type"`
	Sent    *bool             `json:"sent"`
	Opened  *bool             `json:"opened"`
	Replied *bool             `json:"replied"`
}

// CreateEmail saves a draft. The lead must exist. Drafts always start unsent,
// unopened and without a reply.
func (m *Manager) CreateEmail(ctx context.Context, in EmailInput) (*domain.Email, error) {
	leadID := strings.TrimSpace(in.LeadID)
	if leadID == "" {
		return nil, apperrors.Validation("lead_id", "lead_id is required")
	}

	emailType := in.Type
	if emailType == "" {
		emailType = domain.EmailFirstOutreach
	}
	if !emailType.Valid() {
		return nil, apperrors.Validation("type", fmt.Sprintf("invalid email type %q", in.Type))
	}

	if _, err := m.store.GetLead(ctx, leadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("lead", leadID)
		}
		return nil, err
	}

	subject, body := in.Subject, in.Body
	if subject == "" && body == "" && strings.TrimSpace(in.Draft) != "" {
		subject, body = prompts.ParseEmailDraft(in.Draft, m.draftSubject)
	}

	email := domain.Email{
		ID:        m.newID(),
		LeadID:    leadID,
		Subject:   subject,
		Body:      body,
		Type:      emailType,
		SentAt:    nil,
		Opened:    false,
		Replied:   false,
		CreatedAt: m.now(),
	}
	if err := m.store.CreateEmail(ctx, &email); err != nil {
		m.logger.Error("CreateEmail failed: store error", zap.String("lead_id", leadID), zap.Error(err))
		return nil, err
	}

	metrics.RecordEmailDrafted(string(emailType))
	m.logger.Info("Email draft saved", zap.String("id", email.ID), zap.String("lead_id", leadID), zap.String("type", string(emailType)))
	return &email, nil
}

// ListEmails returns a lead's emails, most recent first.
func (m *Manager) ListEmails(ctx context.Context, leadID string) ([]domain.Email, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, apperrors.Validation("lead_id", "lead_id is required")
	}
	emails, err := m.store.ListEmailsByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(emails, func(a, b domain.Email) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return emails, nil
}

// UpdateEmail records operator changes to a draft.
func (m *Manager) UpdateEmail(ctx context.Context, id string, in EmailUpdate) (*domain.Email, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, apperrors.Validation("type", fmt.Sprintf("invalid email type %q", *in.Type))
	}

	patch := domain.EmailPatch{
		Subject: in.Subject,
		Body:    in.Body,
		Type:    in.Type,
		Opened:  in.Opened,
		Replied: in.Replied,
	}
	if in.Sent != nil && *in.Sent {
		sentAt := m.now()
		patch.SentAt = &sentAt
	}

	email, err := m.store.UpdateEmail(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("email", id)
	}
	if err != nil {
		m.logger.Error("UpdateEmail failed: store error", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return email, nil
}

// DeleteEmail removes one email and reports whether it existed.
func (m *Manager) DeleteEmail(ctx context.Context, id string) (bool, error) {
	removed, err := m.store.DeleteEmail(ctx, id)
	if err != nil {
		m.logger.Error("DeleteEmail failed: store error", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return removed, nil
}

// ContactInput is a contact-form message from the public site.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// Inquiry is a stored contact submission and the lead made from it.
type Inquiry struct {
	Submission domain.ContactSubmission `json:"submission"`
	Lead       domain.Lead              `json:"lead"`
}

// RecordInquiry stores a contact-form message and an inbound lead for it in a
// single store operation.
func (m *Manager) RecordInquiry(ctx context.Context, in ContactInput) (*Inquiry, error) {
	in = ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Company: strings.TrimSpace(in.Company),
		Message: strings.TrimSpace(in.Message),
	}
	if err := validateContact(in); err != nil {
		m.logger.Info("Contact submission rejected", zap.Error(err))
		return nil, err
	}

	now := m.now()
	sub := domain.ContactSubmission{
		ID:        m.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Message:   in.Message,
		CreatedAt: now,
	}

	company := in.Company
	if company == "" {
		company = unknownCompany
	}
	lead := domain.Lead{
		ID:           m.newID(),
		CompanyName:  company,
		ContactName:  in.Name,
		ContactEmail: in.Email,
		Category:     domain.CategoryOther,
		Source:       domain.SourceInbound,
		Status:       domain.StatusNew,
		Notes:        inboundNotesPrefix + in.Message,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.store.RecordInquiry(ctx, &sub, &lead); err != nil {
		m.logger.Error("Contact submission failed: store error",
			zap.String("submission_id", sub.ID),
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.RecordContactSubmission()
	metrics.RecordLeadsCreated(string(domain.SourceInbound), 1)
	m.logger.Info("Contact submission stored",
		zap.String("submission_id", sub.ID),
		zap.String("lead_id", lead.ID),
		zap.String("email", sub.Email),
	)
	return &Inquiry{Submission: sub, Lead: lead}, nil
}

// ListContactSubmissions returns every submission, newest first.
func (m *Manager) ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	subs, err := m.store.ListContactSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(subs, func(a, b domain.ContactSubmission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return subs, nil
}

func validateContact(in ContactInput) error {
	if n := len([]rune(in.Name)); n < 1 || n > maxContactNameLength {
		return apperrors.Validation("name", "name must be between 1 and 100 characters")
	}
	if !emailPattern.MatchString(in.Email) {
		return apperrors.Validation("email", "invalid email address")
	}
	if in.Message == "" {
		return apperrors.Validation("message", "message is required")
	}
	if len([]rune(in.Message)) > maxMessageLength {
		return apperrors.Validation("message", "message must not exceed 5000 characters")
	}
	return nil
}

func resolveSource(source, fallback domain.LeadSource) (domain.LeadSource, error) {
	if source == "" {
		return fallback, nil
	}
	if !source.Valid() {
		return "", apperrors.Validation("source", fmt.Sprintf("invalid source %q", source))
	}
	return source, nil
}

func invalidStatus(status domain.LeadStatus) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeInvalidStatus,
		Message: fmt.Sprintf("invalid status %q", status),
		Field:   "status",
	}
}

func sortNewestFirst(leads []domain.Lead) {
	slices.SortStableFunc(leads, func(a, b domain.Lead) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
