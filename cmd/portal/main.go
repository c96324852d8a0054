// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command portal is the entry point for the FaceGate web portal.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the browser storage backend (memory, Redis, or PostgreSQL).
//  4. Run database migrations when PostgreSQL holds the storage.
//  5. Schedule maintenance jobs.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/taibuivan/facegate/internal/api"
	"github.com/taibuivan/facegate/internal/auth"
	"github.com/taibuivan/facegate/internal/backend"
	"github.com/taibuivan/facegate/internal/pages"
	"github.com/taibuivan/facegate/internal/people"
	"github.com/taibuivan/facegate/internal/platform/config"
	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/platform/migration"
	pgstore "github.com/taibuivan/facegate/internal/platform/postgres"
	redisstore "github.com/taibuivan/facegate/internal/platform/redis"
	"github.com/taibuivan/facegate/internal/platform/scheduler"
	"github.com/taibuivan/facegate/internal/platform/view"
	"github.com/taibuivan/facegate/internal/recognition"
	"github.com/taibuivan/facegate/internal/session"
	"github.com/taibuivan/facegate/internal/users/account"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.BackendURL),
		slog.String("session_store", cfg.SessionStore),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Browser Storage ────────────────────────────────────────────────
	var closers []io.Closer
	storage, checks := openStorage(startupCtx, cfg, log, &closers)

	// ── 4. Recognition Backend ────────────────────────────────────────────
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	checks = append(checks, api.Check{Name: "backend", Run: client.Health})

	// ── 5. Maintenance Jobs ───────────────────────────────────────────────
	machines := recognition.NewMachines()

	jobs := scheduler.New(log)
	must(log, jobs.AddJob(jobSessionPurge, cfg.SessionPurgeCron, func(ctx context.Context) error {
		purged, err := storage.Purge(ctx)
		if purged > 0 {
			log.Info("session_purged", slog.Int64("count", purged))
		}
		return err
	}), "schedule session purge")
	must(log, jobs.AddJob(jobScanSweep, cfg.ScanSweepCron, func(context.Context) error {
		if dropped := machines.Sweep(cfg.ScanIdleTTL); dropped > 0 {
			log.Debug("scan_machines_swept", slog.Int("count", dropped))
		}
		return nil
	}), "schedule scan sweep")
	jobs.Start()

	// Namespaces left idle across a restart are dropped right away.
	must(log, jobs.RunNow(jobSessionPurge), "run session purge")

	for _, id := range []string{jobSessionPurge, jobScanSweep} {
		checks = append(checks, api.Check{Name: "job:" + id, Run: jobs.Check(id)})
	}

	// ── 6. Wiring ─────────────────────────────────────────────────────────
	renderer, err := view.New(auth.Decorate)
	must(log, err, "parse templates")

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{Checks: checks}, log)

	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Pages:       pages.NewHandler(renderer),
		Accounts:    account.NewHandler(account.NewService(client), renderer),
		People:      people.NewHandler(people.NewService(client), renderer),
		Recognition: recognition.NewHandler(recognition.NewService(client), machines, renderer),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, renderer, api.Session{
		Cookies: session.NewCookies(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure),
		Backend: storage,
		Store:   session.NewStore(log),
	}, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	var result *multierror.Error
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		result = multierror.Append(result, err)
	}
	jobs.Stop()
	serverCancel()

	// Close in reverse order of opening.
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// openStorage connects the configured browser storage backend and returns
// its readiness check. Connections to close on shutdown are appended to closers.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger, closers *[]io.Closer) (session.Backend, []api.Check) {
	var storage session.Backend

	switch cfg.SessionStore {
	case config.StoreRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, redisstore.Settings{
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
			MaxIdleConns: cfg.RedisMaxIdleConns,
			MaxRetries:   cfg.RedisMaxRetries,
			DialTimeout:  cfg.RedisDialTimeout,
			IOTimeout:    cfg.RedisIOTimeout,
		}, log)
		must(log, err, "connect to redis")
		*closers = append(*closers, rdb)
		storage = session.NewRedisBackend(rdb, cfg.SessionTTL)

	case config.StorePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		*closers = append(*closers, closerFunc(func() error {
			pool.Close()
			return nil
		}))
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
		storage = session.NewPostgresBackend(pool, cfg.SessionTTL)

	default:
		storage = session.NewMemoryBackend(cfg.SessionTTL)
	}

	log.Info("browser_storage_ready", slog.String("backend", storage.Name()))
	return storage, []api.Check{{Name: storage.Name(), Run: storage.Ping}}
}

// Scheduled job identifiers.
const (
	jobSessionPurge = "session_purge"
	jobScanSweep    = "scan_sweep"
)

// closerFunc adapts a function to [io.Closer].
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
