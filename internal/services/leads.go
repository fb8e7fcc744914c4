package services

import (
	"context"

	"go.uber.org/zap"

	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
)

// ListLeadsPayload filters the lead list. Status "" or "all" matches every
// status.
type ListLeadsPayload struct {
	Status string
	Search string
}

// CreateLeadPayload is a lead typed into the dashboard.
type CreateLeadPayload struct {
	Source          domain.LeadSource
	DefaultCategory string
	Fields          map[string]any
}

// ImportPayload carries either pasted text or an already decoded array of
// leads. Leads wins when both are set.
type ImportPayload struct {
	Text   string            `json:"text"`
	Leads  []any             `json:"leads"`
	Source domain.LeadSource `json:"source"`
}

// PreviewResult lists what an import would store.
type PreviewResult struct {
	Count int               `json:"count"`
	Leads []leads.Candidate `json:"leads"`
}

// DeleteResult reports whether a record was removed.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// LeadService implements the leads service
type LeadService struct {
	manager *leads.Manager
	logger  *zap.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(manager *leads.Manager, logger *zap.Logger) *LeadService {
	return &LeadService{manager: manager, logger: logger.Named("leads-api")}
}

func (s *LeadService) List(ctx context.Context, p *ListLeadsPayload) ([]domain.Lead, error) {
	result, err := s.manager.Filter(ctx, p.Status, p.Search)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("List successful", zap.Int("count", len(result)), zap.String("status", p.Status))
	return result, nil
}

func (s *LeadService) Create(ctx context.Context, p *CreateLeadPayload) (*domain.Lead, error) {
	return s.manager.Create(ctx, leads.CreateInput{
		Source:          p.Source,
		DefaultCategory: p.DefaultCategory,
		Fields:          p.Fields,
	})
}

func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return s.manager.Get(ctx, id)
}

func (s *LeadService) Update(ctx context.Context, id string, p *domain.LeadPatch) (*domain.Lead, error) {
	return s.manager.Update(ctx, id, *p)
}

func (s *LeadService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	removed, err := s.manager.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: removed}, nil
}

func (s *LeadService) Stats(ctx context.Context) (*leads.Stats, error) {
	return s.manager.Stats(ctx)
}

// Preview parses an import without storing it.
func (s *LeadService) Preview(ctx context.Context, p *ImportPayload) (*PreviewResult, error) {
	var (
		candidates []leads.Candidate
		err        error
	)
	if p.Leads != nil {
		candidates, err = s.manager.PreviewValues(p.Leads, p.Source)
	} else {
		candidates, err = s.manager.Preview(p.Text, p.Source)
	}
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Count: len(candidates), Leads: candidates}, nil
}

// Import commits every lead of the payload or none of them.
func (s *LeadService) Import(ctx context.Context, p *ImportPayload) (*leads.ImportResult, error) {
	if p.Leads != nil {
		return s.manager.ImportValues(ctx, p.Source, p.Leads)
	}
	return s.manager.Import(ctx, p.Source, p.Text)
}
