package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"creatorsite/internal/config"
	"creatorsite/internal/leads"
	"creatorsite/internal/logging"
	"creatorsite/internal/prompts"
	"creatorsite/internal/server"
	"creatorsite/internal/services"
	"creatorsite/internal/session"
	"creatorsite/internal/store"
	"creatorsite/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("Starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("host", cfg.App.Host),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Database.Driver()),
	)

	s, err := store.Open(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("Error closing store", zap.Error(err))
		}
	}()

	ctx := context.Background()
	revoker, err := session.New(ctx, cfg.Redis.URL, logger)
	if err != nil {
		return err
	}
	defer revoker.Close()

	profile, err := prompts.LoadProfile(cfg.Creator.ProfilePath)
	if err != nil {
		return err
	}
	engine, err := prompts.NewEngine(profile)
	if err != nil {
		return err
	}

	logger.Info("Initializing services...")
	manager := leads.NewManager(s, logger, leads.WithDraftSubject(engine.DefaultSubject()))
	tokens := util.NewTokenManager(cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute, nil)

	srv := server.New(server.Services{
		Auth:        services.NewAuthService(tokens, revoker, cfg.Auth.DashboardUsername, cfg.Auth.DashboardPasswordHash, logger),
		Leads:       services.NewLeadService(manager, logger),
		Emails:      services.NewEmailService(manager, logger),
		Contact:     services.NewContactService(manager, logger),
		BrandAssets: services.NewBrandAssetService(s, logger),
		Prompts:     services.NewPromptService(engine, logger),
		Health:      services.NewHealthService(cfg.App.Name, s, logger),
	}, logger)

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(cfg),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http-server")),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", addr), zap.Int("routes", len(srv.Routes())))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("Starting graceful shutdown", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during graceful shutdown", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Shutdown timeout exceeded, forcing close")
			httpServer.Close()
		}
	}

	logger.Info("Server shutdown complete")
	return nil
}
