// Package app wires configuration, storage, services, and transport into a
// running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	adapterpg "github.com/ovenlight/prepstock-backend/internal/adapter/postgres"
	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	remotemem "github.com/ovenlight/prepstock-backend/internal/adapter/remote/memory"
	remotepg "github.com/ovenlight/prepstock-backend/internal/adapter/remote/postgres"
	"github.com/ovenlight/prepstock-backend/internal/auth"
	"github.com/ovenlight/prepstock-backend/internal/config"
	"github.com/ovenlight/prepstock-backend/internal/domain"
	"github.com/ovenlight/prepstock-backend/internal/persist"
	"github.com/ovenlight/prepstock-backend/internal/service/inventory"
	"github.com/ovenlight/prepstock-backend/internal/service/snapshot"
	"github.com/ovenlight/prepstock-backend/internal/store"
	"github.com/ovenlight/prepstock-backend/internal/transport/middleware"
	"github.com/ovenlight/prepstock-backend/internal/transport/rest"
	"github.com/ovenlight/prepstock-backend/pkg/clock"
)

// Run is the application entry point. It loads configuration, hydrates
// local state from the remote store, starts the snapshot scheduler and the
// HTTP server, and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database_driver", cfg.Database.Driver),
	)

	remoteStore, err := newRemoteStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer remoteStore.Close()

	st := store.NewMemory()
	if err := hydrate(ctx, logger, remoteStore, st); err != nil {
		return err
	}

	deviceID := cfg.Sync.DeviceID
	if deviceID == "" {
		deviceID = uuid.New().String()
		logger.Info("generated device id", slog.String("device_id", deviceID))
	}

	clk := clock.Real{}
	syncer := persist.New(remoteStore, logger, cfg.Sync.Debounce)
	defer syncer.Close()
	oplog := persist.NewOpLog(syncer, st, logger)

	invSvc := inventory.NewService(logger, st, syncer, oplog, clk, deviceID)

	loc, err := cfg.Snapshot.Location()
	if err != nil {
		return fmt.Errorf("snapshot timezone: %w", err)
	}
	snapSvc := snapshot.NewService(logger, st, invSvc, syncer, clk, loc, cfg.Snapshot.RetentionDays)

	rotations := make([]domain.Rotation, 0, len(cfg.Snapshot.Rotations))
	for _, raw := range cfg.Snapshot.Rotations {
		rotation, err := domain.ParseRotation(raw)
		if err != nil {
			return fmt.Errorf("snapshot rotations: %w", err)
		}
		rotations = append(rotations, rotation)
	}

	scheduler, err := snapshot.NewScheduler(logger, snapSvc, syncer, clk, snapshot.SchedulerConfig{
		CaptureAt: cfg.Snapshot.CaptureAt,
		Location:  loc,
		Rotations: rotations,
	})
	if err != nil {
		return fmt.Errorf("snapshot scheduler: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
	}

	handler := newHandler(cfg, logger, invSvc, snapSvc, syncer, oplog, scheduler, clk, remoteStore, deviceID, limiter)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRemoteStore builds the configured remote document store. The postgres
// driver runs migrations first; the memory driver is for development and
// keeps nothing across restarts.
func newRemoteStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (remote.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory remote store, nothing survives a restart")
		return remotemem.New(), nil
	default:
		if err := adapterpg.Migrate(ctx, cfg.Database.DSN); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := adapterpg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		return remotepg.New(pool), nil
	}
}

// newHandler assembles the REST handlers and the middleware chain.
func newHandler(
	cfg *config.Config,
	logger *slog.Logger,
	invSvc *inventory.Service,
	snapSvc *snapshot.Service,
	syncer *persist.Synchronizer,
	oplog *persist.OpLog,
	scheduler *snapshot.Scheduler,
	clk clock.Clock,
	remoteStore remote.Store,
	deviceID string,
	limiter *middleware.RateLimiter,
) http.Handler {
	handlers := rest.Handlers{
		Inventory: rest.NewInventoryHandler(invSvc, logger),
		Snapshot:  rest.NewSnapshotHandler(snapSvc, logger),
		Sync:      rest.NewSyncHandler(syncer, oplog, scheduler, clk, deviceID, logger),
		Health:    rest.NewHealthHandler(remoteStore, BuildVersion()),
	}

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.DeviceID,
	}
	if limiter != nil {
		mws = append(mws, limiter.Limit(cfg.Server.RateLimitPerMinute))
	}
	mws = append(mws,
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
	)

	if cfg.Auth.Enabled {
		manager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
		handlers.Token = rest.NewTokenHandler(manager, logger)
		mws = append(mws, middleware.Auth(manager))
	}

	return rest.NewRouter(handlers, mws...)
}
