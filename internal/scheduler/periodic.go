package scheduler

import (
	"fmt"

	"adpulse_backend/platform/config"

	"github.com/hibiken/asynq"
)

// Nightly full sync keeps stored scores converged with the scoring rules
// even when single-lead syncs were missed.
const fullSyncCronSpec = "0 3 * * *"

// PeriodicScheduler registers cron-style recurring tasks on the queue.
type PeriodicScheduler struct {
	scheduler *asynq.Scheduler
}

func NewPeriodicScheduler(cfg config.SchedulerConfig) (*PeriodicScheduler, error) {
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

	scheduler := asynq.NewScheduler(opt, nil)
	if _, err := scheduler.Register(
		fullSyncCronSpec,
		asynq.NewTask(TaskScoreSyncAll, nil),
		asynq.Queue(queue),
	); err != nil {
		return nil, fmt.Errorf("register full sync schedule: %w", err)
	}

	return &PeriodicScheduler{scheduler: scheduler}, nil
}

// Run starts the scheduler loop and blocks until shutdown.
func (p *PeriodicScheduler) Run() error {
	return p.scheduler.Run()
}

// Shutdown stops the scheduler.
func (p *PeriodicScheduler) Shutdown() {
	p.scheduler.Shutdown()
}
