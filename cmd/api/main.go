package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adpulse_backend/internal/attribution"
	"adpulse_backend/internal/events"
	apphttp "adpulse_backend/internal/http"
	"adpulse_backend/internal/http/router"
	"adpulse_backend/internal/leads"
	"adpulse_backend/internal/metrics"
	"adpulse_backend/internal/scheduler"
	"adpulse_backend/platform/config"
	"adpulse_backend/platform/db"
	"adpulse_backend/platform/logger"
	"adpulse_backend/platform/ratelimit"
	"adpulse_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Intake quota counter: Redis when configured, in-process otherwise.
	counter, closeCounter := initIntakeCounter(ctx, cfg, log)
	if closeCounter != nil {
		defer closeCounter()
	}

	syncClient, closeSyncClient := initScoreSyncClient(cfg, log)
	if closeSyncClient != nil {
		defer closeSyncClient()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, counter, cfg, val, log)
	metricsModule := metrics.NewModule(pool, val, log)
	attributionModule := attribution.NewModule(leadsModule.Repository(), metricsModule.Repository(), val, log)

	// Captured leads get a queued single-lead sync so stored scores converge
	// without blocking the intake request.
	if syncClient != nil {
		eventBus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(
			func(ctx context.Context, event events.Event) error {
				captured, ok := event.(events.LeadCaptured)
				if !ok {
					return nil
				}
				leadID := captured.LeadID.String()
				return syncClient.EnqueueScoreSync(ctx, scheduler.ScoreSyncPayload{
					WorkspaceID: captured.WorkspaceID.String(),
					LeadID:      &leadID,
				})
			},
		))
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			metricsModule,
			attributionModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initIntakeCounter(ctx context.Context, cfg *config.Config, log *logger.Logger) (ratelimit.CounterStore, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; intake quotas tracked in-process only")
		return ratelimit.NewMemoryCounter(), nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; intake quotas tracked in-process only", "error", err)
		return ratelimit.NewMemoryCounter(), nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable at startup; intake quotas tracked in-process only", "error", err)
		_ = client.Close()
		return ratelimit.NewMemoryCounter(), nil
	}

	return ratelimit.NewRedisCounter(client), func() {
		_ = client.Close()
	}
}

func initScoreSyncClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; queued score syncs disabled")
		return nil, nil
	}

	syncClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize score sync client", "error", err)
		return nil, nil
	}

	return syncClient, func() {
		_ = syncClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
