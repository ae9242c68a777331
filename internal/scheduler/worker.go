package scheduler

import (
	"context"
	"fmt"

	leadservice "adpulse_backend/internal/leads/service"
	"adpulse_backend/platform/config"
	"adpulse_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes queued tasks and runs them against the leads service.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  *leadservice.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads *leadservice.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		leads:  leads,
		log:    log,
	}
	mux.HandleFunc(TaskScoreSync, w.handleScoreSync)
	mux.HandleFunc(TaskScoreSyncAll, w.handleScoreSyncAll)

	return w, nil
}

// Run starts the worker loop and blocks until shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown drains in-flight tasks and stops the server.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleScoreSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseScoreSyncPayload(task)
	if err != nil {
		w.log.Error("malformed score sync payload", "error", err.Error())
		// Malformed payloads never become valid; skip retries.
		return fmt.Errorf("parse score sync payload: %v: %w", err, asynq.SkipRetry)
	}

	workspaceID, err := uuid.Parse(payload.WorkspaceID)
	if err != nil {
		return fmt.Errorf("invalid workspace id %q: %w", payload.WorkspaceID, asynq.SkipRetry)
	}

	var leadID *uuid.UUID
	if payload.LeadID != nil {
		parsed, err := uuid.Parse(*payload.LeadID)
		if err != nil {
			return fmt.Errorf("invalid lead id %q: %w", *payload.LeadID, asynq.SkipRetry)
		}
		leadID = &parsed
	}

	report, err := w.leads.SyncScores(ctx, workspaceID, leadID)
	if err != nil {
		return fmt.Errorf("score sync for workspace %s: %w", workspaceID, err)
	}

	w.log.Info("queued score sync complete",
		"workspace_id", workspaceID.String(),
		"total", report.Total,
		"updated", report.Updated,
		"failed", len(report.Failures),
	)
	return nil
}

func (w *Worker) handleScoreSyncAll(ctx context.Context, _ *asynq.Task) error {
	synced, err := w.leads.SyncAllWorkspaces(ctx)
	if err != nil {
		return fmt.Errorf("full score sync: %w", err)
	}

	w.log.Info("full score sync complete", "workspaces", synced)
	return nil
}
