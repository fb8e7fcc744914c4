package services

import (
	"context"

	"go.uber.org/zap"

	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
)

// EmailService manages outreach drafts saved against leads. Nothing is ever
// sent from here; the operator marks drafts as sent by hand.
type EmailService struct {
	manager *leads.Manager
	logger  *zap.Logger
}

// NewEmailService creates a new email service
func NewEmailService(manager *leads.Manager, logger *zap.Logger) *EmailService {
	return &EmailService{manager: manager, logger: logger.Named("emails-api")}
}

func (s *EmailService) Create(ctx context.Context, p *leads.EmailInput) (*domain.Email, error) {
	return s.manager.CreateEmail(ctx, *p)
}

func (s *EmailService) ListByLead(ctx context.Context, leadID string) ([]domain.Email, error) {
	return s.manager.ListEmails(ctx, leadID)
}

func (s *EmailService) Update(ctx context.Context, id string, p *leads.EmailUpdate) (*domain.Email, error) {
	return s.manager.UpdateEmail(ctx, id, *p)
}

func (s *EmailService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	removed, err := s.manager.DeleteEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Email delete", zap.String("id", id), zap.Bool("removed", removed))
	return &DeleteResult{Deleted: removed}, nil
}
