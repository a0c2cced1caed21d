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

	"homebuilder-proforma/config"
	httpLayer "homebuilder-proforma/http"
	"homebuilder-proforma/logger"
	"homebuilder-proforma/repository"
	"homebuilder-proforma/service"
)

type store interface {
	repository.ProformaRepository
	repository.AccountRepository
}

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.L.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.L.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig) error {
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	st, closeStore, err := openStore(startupCtx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache, err := openCache(startupCtx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	catalog, err := repository.LoadTemplateCatalog(cfg.COATemplatesPath)
	if err != nil {
		return fmt.Errorf("load COA templates: %w", err)
	}
	for _, t := range catalog.All() {
		if err := service.ValidateTemplate(t); err != nil {
			return err
		}
	}

	narrator := service.NewNarrativeService(cfg.OpenAIAPIKey)
	if cfg.OpenAIAPIKey == "" {
		logger.L.Info("OPENAI_API_KEY not set, proforma summaries use the built-in template")
	}

	proformaHandler := httpLayer.NewProformaHandler(
		service.NewLotDevelopmentService(st, cache, narrator),
		service.NewLotPurchaseService(st, cache, narrator),
		service.NewSensitivityService(),
		service.NewRunService(st),
	)
	coaHandler := httpLayer.NewCOAHandler(service.NewCOAService(catalog, st))

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpLayer.NewRouter(proformaHandler, coaHandler, rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.L.Info("API listening", "addr", server.Addr, "store", cfg.StoreDriver, "cache", cfg.CacheDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-quit:
		logger.L.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.L.Info("Server exited")
	return nil
}

func openStore(ctx context.Context, cfg *config.AppConfig) (store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		s, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.L.Warn("Error closing SQLite store", "error", err)
			}
		}, nil
	case config.StorePostgres:
		s, err := repository.ConnectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.L.Info("Postgres store ready", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return s, s.Close, nil
	default:
		logger.L.Info("Using in-memory store, runs are lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}
}

func openCache(ctx context.Context, cfg *config.AppConfig) (repository.CacheRepository, func(), error) {
	switch cfg.CacheDriver {
	case config.CacheRedis:
		c := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		if err := c.Ping(ctx); err != nil {
			if closeErr := c.Close(); closeErr != nil {
				logger.L.Warn("Error closing Redis cache", "error", closeErr)
			}
			return nil, nil, err
		}
		logger.L.Info("Redis cache ready", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
		return c, func() {
			if err := c.Close(); err != nil {
				logger.L.Warn("Error closing Redis cache", "error", err)
			}
		}, nil
	case config.CacheMemory:
		return repository.NewMemoryCache(cfg.CacheTTL), func() {}, nil
	default:
		return repository.NoopCache{}, func() {}, nil
	}
}
