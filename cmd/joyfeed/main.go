package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"joyfeed/internal/aggregate"
	"joyfeed/internal/app"
	"joyfeed/internal/cache"
	"joyfeed/internal/classify"
	"joyfeed/internal/config"
	"joyfeed/internal/fetch"
	"joyfeed/internal/logger"
	"joyfeed/internal/metrics"
	"joyfeed/internal/registry"
	"joyfeed/internal/retry"
	httpserver "joyfeed/internal/transport/http"
	"joyfeed/internal/warm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}
	logger.Init()

	reg, err := registry.Load(cfg.FeedsConfigPath)
	if err != nil {
		logger.Error("could not load feed catalog", "path", cfg.FeedsConfigPath, "error", err)
		os.Exit(1)
	}
	logger.Info("feed catalog loaded",
		"regions", len(reg.Regions()),
		"feeds", len(reg.AllFeeds()),
	)

	stats := metrics.New()
	backend := openCacheBackend(cfg)
	resultCache := cache.New(backend, cfg.CacheTTL, stats)

	fetcher := fetch.New(cfg.FeedTimeout, stats)
	aggregator := aggregate.New(reg, fetcher, classify.DefaultRules, cfg.MaxStories, cfg.FetchConcurrency, stats)
	application := app.New(aggregator, resultCache, cfg.PageSize)

	var warmer *warm.Warmer
	if cfg.WarmInterval > 0 {
		warmer = warm.New(application, reg.Regions(), cfg.WarmInterval, stats)
		warmer.Start()
	}

	handler := httpserver.NewHandler(application, stats)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpserver.NewServer(handler),
	}

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.Info("shutdown signal received", "signal", sig.String())

	if warmer != nil {
		warmer.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if closer, ok := backend.(interface{ Close() error }); ok {
		closer.Close()
	}
	logger.Info("application stopped")
}

// openCacheBackend wires the persistent cache backend when DATABASE_URL is
// set, falling back to the in-memory backend on any failure.
func openCacheBackend(cfg *config.Config) cache.Backend {
	if cfg.DatabaseURL == "" {
		return cache.NewMemory()
	}

	var pg *cache.Postgres
	err := retry.Do(context.Background(), retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}, func() error {
		var connErr error
		pg, connErr = cache.NewPostgres(cfg.DatabaseURL)
		return connErr
	})
	if err != nil {
		logger.Warn("persistent cache unavailable, using in-memory cache", "error", err)
		return cache.NewMemory()
	}
	logger.Info("persistent cache connected")
	return pg
}
