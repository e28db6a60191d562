package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/tubearchitect/internal/a2a"
	"github.com/BerylCAtieno/tubearchitect/internal/config"
	"github.com/BerylCAtieno/tubearchitect/internal/identity"
	"github.com/BerylCAtieno/tubearchitect/internal/logging"
	"github.com/BerylCAtieno/tubearchitect/internal/session"
	"github.com/BerylCAtieno/tubearchitect/internal/store"
	"github.com/BerylCAtieno/tubearchitect/internal/strategy"
	"github.com/BerylCAtieno/tubearchitect/internal/web"
	"github.com/BerylCAtieno/tubearchitect/internal/workflow"
	"github.com/BerylCAtieno/tubearchitect/internal/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	profiles, closeStore, err := openProfiles(startCtx, cfg.Database, logger)
	startCancel()
	if err != nil {
		return err
	}
	defer closeStore()

	generator := strategy.NewGeminiClient(strategy.Config{
		APIKey:    cfg.Gemini.APIKey,
		Model:     cfg.Gemini.Model,
		BaseURL:   cfg.Gemini.BaseURL,
		Timeout:   cfg.Strategy.Timeout,
		Language:  cfg.Strategy.Language,
		DemoDelay: cfg.Strategy.DemoDelay,
	}, logger)
	stats := youtube.NewStatsService(cfg.YouTube.Endpoint, logger)

	wf := workflow.New(session.NewManager(), profiles, stats, generator, logger)
	defer wf.Close()

	auth := identity.NewAuthenticator(identity.Config{
		Secret:      []byte(cfg.Auth.JWTSecret),
		GuestCookie: cfg.Auth.GuestCookie,
	}, logger)

	srv, err := web.NewServer(wf, auth, a2a.NewA2AHandler(generator, stats, logger), logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("TubeArchitect starting",
		zap.String("port", cfg.Server.Port),
		zap.String("gin_mode", cfg.Server.GinMode),
		zap.String("database", cfg.Database.Driver),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("server_model_key", cfg.Gemini.APIKey != ""),
		zap.Bool("token_sign_in", cfg.Auth.JWTSecret != ""))
	logger.Info("Agent card available", zap.String("url", "http://localhost:"+cfg.Server.Port+"/.well-known/agent.json"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		wf.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}

func openProfiles(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (store.ProfileStore, func(), error) {
	var s interface {
		store.ProfileStore
		Close() error
	}
	var err error

	switch cfg.Driver {
	case store.DriverMemory:
		logger.Warn("Using in-memory profile store, profiles are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	case store.DriverRedis:
		s, err = store.OpenRedis(ctx, cfg.URL, logger)
	default:
		s, err = store.Open(ctx, cfg.Driver, cfg.URL, logger)
	}
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Warn("Failed to close profile store", zap.Error(err))
		}
	}, nil
}
