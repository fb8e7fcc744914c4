package services

import (
	"context"

	"go.uber.org/zap"

	"creatorsite/internal/domain"
	"creatorsite/internal/leads"
)

const contactThankYou = "Thank you for your message! I'll get back to you within 48 hours."

// ContactSubmitResult is returned to the public contact form.
type ContactSubmitResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ContactService implements the contact service
type ContactService struct {
	manager *leads.Manager
	logger  *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(manager *leads.Manager, logger *zap.Logger) *ContactService {
	return &ContactService{manager: manager, logger: logger.Named("contact")}
}

// Submit stores a contact-form message together with an inbound lead.
func (s *ContactService) Submit(ctx context.Context, p *leads.ContactInput) (*ContactSubmitResult, error) {
	inquiry, err := s.manager.RecordInquiry(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &ContactSubmitResult{ID: inquiry.Submission.ID, Message: contactThankYou}, nil
}

// List returns all contact submissions, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	subs, err := s.manager.ListContactSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("List successful", zap.Int("count", len(subs)))
	return subs, nil
}
