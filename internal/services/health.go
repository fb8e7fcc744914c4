package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"creatorsite/internal/store"
)

const healthCheckTimeout = 2 * time.Second

// HealthResult is the /health response body.
type HealthResult struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Storage string `json:"storage"`
}

// HealthService implements the health service
type HealthService struct {
	name   string
	store  store.Store
	logger *zap.Logger
}

// NewHealthService creates a new health service
func NewHealthService(name string, s store.Store, logger *zap.Logger) *HealthService {
	return &HealthService{name: name, store: s, logger: logger.Named("health")}
}

// Check reports healthy when the store answers a ping. A failing store
// degrades the service without failing the request.
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	res := &HealthResult{Status: "healthy", Service: s.name, Storage: "ok"}
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("Store ping failed", zap.Error(err))
		res.Status = "degraded"
		res.Storage = "unavailable"
	}
	return res
}
