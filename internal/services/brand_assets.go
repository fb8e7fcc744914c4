package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"creatorsite/internal/domain"
	"creatorsite/internal/store"
	apperrors "creatorsite/pkg/errors"
)

// CreateBrandAssetPayload registers an uploaded file.
type CreateBrandAssetPayload struct {
	Name    string                `json:"name"`
	FileURL string                `json:"file_url"`
	Type    domain.BrandAssetType `json:"type"`
}

// BrandAssetService keeps the creator's media kit, analytics and moodboard
// files.
type BrandAssetService struct {
	store  store.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewBrandAssetService creates a new brand asset service
func NewBrandAssetService(s store.Store, logger *zap.Logger) *BrandAssetService {
	return &BrandAssetService{
		store:  s,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.Named("brand-assets"),
	}
}

// List returns every asset, most recently uploaded first.
func (s *BrandAssetService) List(ctx context.Context) ([]domain.BrandAsset, error) {
	assets, err := s.store.ListBrandAssets(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(assets, func(a, b domain.BrandAsset) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	return assets, nil
}

func (s *BrandAssetService) Create(ctx context.Context, p *CreateBrandAssetPayload) (*domain.BrandAsset, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "name is required")
	}
	fileURL := strings.TrimSpace(p.FileURL)
	if fileURL == "" {
		return nil, apperrors.Validation("file_url", "file_url is required")
	}
	if !p.Type.Valid() {
		return nil, apperrors.Validation("type", fmt.Sprintf("invalid asset type %q", p.Type))
	}

	asset := domain.BrandAsset{
		ID:         uuid.NewString(),
		Name:       name,
		FileURL:    fileURL,
		Type:       p.Type,
		UploadedAt: s.now(),
	}
	if err := s.store.CreateBrandAsset(ctx, &asset); err != nil {
		s.logger.Error("Create failed: store error", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Brand asset created", zap.String("id", asset.ID), zap.String("type", string(asset.Type)))
	return &asset, nil
}

func (s *BrandAssetService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	removed, err := s.store.DeleteBrandAsset(ctx, id)
	if err != nil {
		s.logger.Error("Delete failed: store error", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &DeleteResult{Deleted: removed}, nil
}
