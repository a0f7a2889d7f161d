// Package main is the entry point for the umbrella API server.
//
// It initializes the configuration, wires the provider client, payload cache,
// and settings storage into the decision service, builds the HTTP server, and
// starts listening for requests. Without DATABASE_URL the server falls back
// to an in-memory settings store, which is sufficient for local development.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jiten-project/umbrella-app/internal/api"
	"github.com/jiten-project/umbrella-app/internal/config"
	"github.com/jiten-project/umbrella-app/internal/db"
	"github.com/jiten-project/umbrella-app/internal/jma"
	"github.com/jiten-project/umbrella-app/internal/service"
	"github.com/jiten-project/umbrella-app/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on
// error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("umbrella API starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store types.SettingsStore
	if cfg.Database.URL != "" {
		pool, err := db.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		store = db.NewSettingsRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory settings store")
		store = newMemoryStore()
	}

	fetcher := jma.NewClient(
		&http.Client{Timeout: cfg.Provider.Timeout},
		cfg.Provider.BaseURL,
		cfg.Provider.UserAgent,
		cfg.Provider.RequestsPerSecond,
		cfg.Provider.RateBurst,
	)
	cache := jma.NewPayloadCache(cfg.Provider.CacheTTL, logger)
	go purgeLoop(ctx, cache, cfg.Provider.CacheTTL, logger)

	// A GPS resolver is a device capability; the server deployment has none,
	// so GPS-based origins surface location_manual_required.
	svc := service.New(fetcher, cache, nil, store, logger,
		service.WithDefaultCriteria(types.UmbrellaCriteria{
			PopThreshold:    cfg.Umbrella.PopThreshold,
			PrecipThreshold: cfg.Umbrella.PrecipThreshold,
			Logic:           types.CriteriaLogic(cfg.Umbrella.Logic),
		}),
	)

	srv, err := api.NewServer(cfg, svc, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.MountRoutes()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// purgeLoop evicts expired cache entries once per TTL interval until the
// process shuts down. Load checks expiry itself; this only bounds memory.
func purgeLoop(ctx context.Context, cache *jma.PayloadCache, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := cache.Purge(); removed > 0 {
				logger.Debug("purged expired forecast payloads", "entries", removed)
			}
		}
	}
}

// newLogger builds the process-wide structured logger.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// memoryStore is the development fallback settings store.
type memoryStore struct {
	mu       sync.RWMutex
	settings *types.Settings
}

func newMemoryStore() *memoryStore {
	return &memoryStore{settings: types.DefaultSettings()}
}

func (m *memoryStore) Load(ctx context.Context) (*types.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := *m.settings
	return &copied, nil
}

func (m *memoryStore) Save(ctx context.Context, settings *types.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *settings
	m.settings = &copied
	return nil
}
