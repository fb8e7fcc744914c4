package services

import (
	"context"

	"go.uber.org/zap"

	"creatorsite/internal/prompts"
	apperrors "creatorsite/pkg/errors"
)

// PromptPayload holds the inputs of every prompt kind. Each kind reads only
// the fields it needs.
type PromptPayload struct {
	Category        string `json:"category"`
	Count           int    `json:"count"`
	Brand           string `json:"brand"`
	Company         string `json:"company"`
	Website         string `json:"website"`
	ContactName     string `json:"contact_name"`
	Pitch           string `json:"pitch"`
	FollowUpNumber  int    `json:"followup_number"`
	OriginalSubject string `json:"original_subject"`
}

// PromptResult is a rendered prompt ready to copy.
type PromptResult struct {
	Kind   prompts.Kind `json:"kind"`
	Prompt string       `json:"prompt"`
}

// PromptService renders assistant prompts for the dashboard.
type PromptService struct {
	engine *prompts.Engine
	logger *zap.Logger
}

// NewPromptService creates a new prompt service
func NewPromptService(engine *prompts.Engine, logger *zap.Logger) *PromptService {
	return &PromptService{engine: engine, logger: logger.Named("prompts")}
}

func (s *PromptService) Render(_ context.Context, kind prompts.Kind, p *PromptPayload) (*PromptResult, error) {
	var (
		text string
		err  error
	)
	switch kind {
	case prompts.KindDiscovery:
		text, err = s.engine.LeadDiscovery(p.Category, p.Count)
	case prompts.KindCompetitor:
		text, err = s.engine.CompetitorLookup(p.Brand)
	case prompts.KindPitch:
		text, err = s.engine.Pitch(p.Company, p.Category, p.Website)
	case prompts.KindOutreach:
		text, err = s.engine.Outreach(prompts.OutreachInput{
			Company:     p.Company,
			ContactName: p.ContactName,
			Pitch:       p.Pitch,
			Category:    p.Category,
		})
	case prompts.KindFollowUp:
		text, err = s.engine.FollowUp(p.Company, p.FollowUpNumber, p.OriginalSubject)
	default:
		return nil, apperrors.NotFound("prompt kind", string(kind))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Prompt rendered", zap.String("kind", string(kind)), zap.Int("length", len(text)))
	return &PromptResult{Kind: kind, Prompt: text}, nil
}
