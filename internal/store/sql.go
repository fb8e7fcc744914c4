package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"creatorsite/internal/domain"
	apperrors "creatorsite/pkg/errors"
)

// SQLStore keeps the collections in SQLite or PostgreSQL tables through gorm.
// Leads carry a store-assigned seq so a batch sharing one created_at still
// lists in insertion order. Other collections are returned by created_at
// then id.
type SQLStore struct {
	db     *gorm.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewSQLStore wraps a migrated gorm connection.
func NewSQLStore(db *gorm.DB, logger *zap.Logger, opts ...Option) *SQLStore {
	o := buildOptions(opts)
	return &SQLStore{
		db:     db,
		now:    o.now,
		logger: logger.Named("store"),
	}
}

const leadOrder = "seq ASC, created_at ASC, id ASC"

// nextLeadSeq returns the sequence number after the newest stored lead.
// Rows migrated before seq existed hold 0 and sort by created_at.
func nextLeadSeq(tx *gorm.DB) (int64, error) {
	var last int64
	if err := tx.Model(&domain.Lead{}).Select("COALESCE(MAX(seq), 0)").Row().Scan(&last); err != nil {
		return 0, err
	}
	return last + 1, nil
}

func createLead(tx *gorm.DB, lead *domain.Lead) error {
	seq, err := nextLeadSeq(tx)
	if err != nil {
		return err
	}
	lead.Seq = seq
	return tx.Create(lead).Error
}

func (s *SQLStore) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	start := time.Now()
	leads := []domain.Lead{}
	err := s.db.WithContext(ctx).Order(leadOrder).Find(&leads).Error
	observe("list_leads", start, err)
	if err != nil {
		return nil, apperrors.Persistence("failed to list leads", err)
	}
	return leads, nil
}

func (s *SQLStore) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	start := time.Now()
	var lead domain.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	observe("get_lead", start, ignoreNotFound(err))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to get lead", err)
	}
	return &lead, nil
}

func (s *SQLStore) ListLeadsByStatus(ctx context.Context, status domain.LeadStatus) ([]domain.Lead, error) {
	start := time.Now()
	leads := []domain.Lead{}
	err := s.db.WithContext(ctx).Where("status = ?", status).Order(leadOrder).Find(&leads).Error
	observe("list_leads_by_status", start, err)
	if err != nil {
		return nil, apperrors.Persistence("failed to list leads by status", err)
	}
	return leads, nil
}

func (s *SQLStore) CreateLead(ctx context.Context, lead *domain.Lead) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createLead(tx, lead)
	})
	observe("create_lead", start, err)
	if err != nil {
		return apperrors.Persistence("failed to create lead", err)
	}
	return nil
}

func (s *SQLStore) BulkCreateLeads(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextLeadSeq(tx)
		if err != nil {
			return err
		}
		for i := range leads {
			leads[i].Seq = seq + int64(i)
		}
		return tx.CreateInBatches(leads, 100).Error
	})
	observe("bulk_create_leads", start, err)
	if err != nil {
		return apperrors.Persistence("failed to import leads", err)
	}
	return nil
}

func (s *SQLStore) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	start := time.Now()
	var lead domain.Lead
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&lead).Error; err != nil {
			return err
		}
		patch.Apply(&lead, s.now())
		return tx.Save(&lead).Error
	})
	observe("update_lead", start, ignoreNotFound(err))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to update lead", err)
	}
	return &lead, nil
}

func (s *SQLStore) DeleteLead(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&domain.Lead{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if removed == 0 {
			return nil
		}
		return tx.Where("lead_id = ?", id).Delete(&domain.Email{}).Error
	})
	observe("delete_lead", start, err)
	if err != nil {
		return false, apperrors.Persistence("failed to delete lead", err)
	}
	return removed > 0, nil
}

func (s *SQLStore) ListEmailsByLead(ctx context.Context, leadID string) ([]domain.Email, error) {
	start := time.Now()
	emails := []domain.Email{}
	err := s.db.WithContext(ctx).Where("lead_id = ?", leadID).Order("created_at ASC, id ASC").Find(&emails).Error
	observe("list_emails", start, err)
	if err != nil {
		return nil, apperrors.Persistence("failed to list emails", err)
	}
	return emails, nil
}

func (s *SQLStore) GetEmail(ctx context.Context, id string) (*domain.Email, error) {
	start := time.Now()
	var email domain.Email
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&email).Error
	observe("get_email", start, ignoreNotFound(err))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to get email", err)
	}
	return &email, nil
}

func (s *SQLStore) CreateEmail(ctx context.Context, email *domain.Email) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(email).Error
	observe("create_email", start, err)
	if err != nil {
		return apperrors.Persistence("failed to create email", err)
	}
	return nil
}

func (s *SQLStore) UpdateEmail(ctx context.Context, id string, patch domain.EmailPatch) (*domain.Email, error) {
	start := time.Now()
	var email domain.Email
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&email).Error; err != nil {
			return err
		}
		patch.Apply(&email)
		return tx.Save(&email).Error
	})
	observe("update_email", start, ignoreNotFound(err))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to update email", err)
	}
	return &email, nil
}

func (s *SQLStore) DeleteEmail(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Email{})
	observe("delete_email", start, res.Error)
	if res.Error != nil {
		return false, apperrors.Persistence("failed to delete email", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SQLStore) ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	start := time.Now()
	subs := []domain.ContactSubmission{}
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&subs).Error
	observe("list_contact_submissions", start, err)
	if err != nil {
		return nil, apperrors.Persistence("failed to list contact submissions", err)
	}
	return subs, nil
}

// RecordInquiry writes the submission and its lead in one transaction.
func (s *SQLStore) RecordInquiry(ctx context.Context, sub *domain.ContactSubmission, lead *domain.Lead) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return createLead(tx, lead)
	})
	observe("record_inquiry", start, err)
	if err != nil {
		return apperrors.Persistence("failed to record contact inquiry", err)
	}
	return nil
}

func (s *SQLStore) ListBrandAssets(ctx context.Context) ([]domain.BrandAsset, error) {
	start := time.Now()
	assets := []domain.BrandAsset{}
	err := s.db.WithContext(ctx).Order("uploaded_at ASC, id ASC").Find(&assets).Error
	observe("list_brand_assets", start, err)
	if err != nil {
		return nil, apperrors.Persistence("failed to list brand assets", err)
	}
	return assets, nil
}

func (s *SQLStore) CreateBrandAsset(ctx context.Context, asset *domain.BrandAsset) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(asset).Error
	observe("create_brand_asset", start, err)
	if err != nil {
		return apperrors.Persistence("failed to create brand asset", err)
	}
	return nil
}

func (s *SQLStore) DeleteBrandAsset(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.BrandAsset{})
	observe("delete_brand_asset", start, res.Error)
	if res.Error != nil {
		return false, apperrors.Persistence("failed to delete brand asset", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Ping checks the underlying connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.Persistence("failed to get underlying sql.DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Persistence("database ping failed", err)
	}
	return nil
}

// Close closes the database connections.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.logger.Info("Closing database connections")
	return sqlDB.Close()
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
