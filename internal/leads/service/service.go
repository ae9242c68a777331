// Package service implements lead capture and score synchronization.
package service

import (
	"adpulse_backend/internal/events"
	"adpulse_backend/internal/leads/repository"
	"adpulse_backend/platform/config"
	"adpulse_backend/platform/logger"
	"adpulse_backend/platform/ratelimit"
)

// Service coordinates lead intake and score sync on top of the repository.
type Service struct {
	repo    repository.Repository
	bus     events.Bus
	counter ratelimit.CounterStore
	intake  config.IntakeConfig
	log     *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, bus events.Bus, counter ratelimit.CounterStore, intake config.IntakeConfig, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		bus:     bus,
		counter: counter,
		intake:  intake,
		log:     log,
	}
}
