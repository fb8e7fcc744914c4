// Package store persists the site's four collections: leads, emails, brand
// assets and contact submissions.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"creatorsite/internal/config"
	"creatorsite/internal/database"
	"creatorsite/internal/domain"
	"creatorsite/internal/metrics"
)

// ErrNotFound is returned when a get or update targets an id that does not
// exist. Deletes report absence through their boolean result instead.
var ErrNotFound = errors.New("record not found")

// Store is the record store contract shared by every backend. Collections
// keep insertion order; callers assign ids and timestamps before create.
type Store interface {
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	GetLead(ctx context.Context, id string) (*domain.Lead, error)
	ListLeadsByStatus(ctx context.Context, status domain.LeadStatus) ([]domain.Lead, error)
	CreateLead(ctx context.Context, lead *domain.Lead) error
	// BulkCreateLeads appends every lead in a single write.
	BulkCreateLeads(ctx context.Context, leads []domain.Lead) error
	// UpdateLead shallow-merges patch and always refreshes updated_at.
	UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error)
	// DeleteLead removes the lead and every email referencing it.
	DeleteLead(ctx context.Context, id string) (bool, error)

	ListEmailsByLead(ctx context.Context, leadID string) ([]domain.Email, error)
	GetEmail(ctx context.Context, id string) (*domain.Email, error)
	CreateEmail(ctx context.Context, email *domain.Email) error
	UpdateEmail(ctx context.Context, id string, patch domain.EmailPatch) (*domain.Email, error)
	DeleteEmail(ctx context.Context, id string) (bool, error)

	ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error)
	// RecordInquiry stores a contact submission together with the inbound
	// lead synthesized from it. Either both are stored or neither is.
	RecordInquiry(ctx context.Context, sub *domain.ContactSubmission, lead *domain.Lead) error

	ListBrandAssets(ctx context.Context) ([]domain.BrandAsset, error)
	CreateBrandAsset(ctx context.Context, asset *domain.BrandAsset) error
	DeleteBrandAsset(ctx context.Context, id string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to stamp updated_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open selects a backend from the database URL: file:// opens the JSON
// document store, sqlite:// and postgres:// open the SQL store.
func Open(cfg config.DatabaseConfig, logger *zap.Logger, opts ...Option) (Store, error) {
	switch cfg.Driver() {
	case config.DriverDocument:
		return NewDocumentStore(cfg.GetDocumentPath(), logger, opts...)
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, logger, opts...), nil
	}
	return nil, fmt.Errorf("unsupported DATABASE_URL %q", cfg.URL)
}

func observe(operation string, start time.Time, err error) {
	metrics.RecordStoreOperation(operation, time.Since(start), err)
}
