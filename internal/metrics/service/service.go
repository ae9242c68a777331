// Package service implements the daily metrics store: validated, idempotent
// upserts of one spend/click/lead/booking record per (workspace, date).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"adpulse_backend/internal/metrics/repository"
	"adpulse_backend/platform/apperr"
	"adpulse_backend/platform/logger"
)

// Service validates and persists daily metric entries.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new daily metrics service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// UpsertInput carries one day's figures as supplied by the caller.
// Any cpl-like value a caller attempts to pass is ignored by construction:
// there is no CPL field here.
type UpsertInput struct {
	WorkspaceID uuid.UUID
	Date        time.Time
	Spend       float64
	Clicks      int
	Leads       int
	Bookings    int
	Revenue     *float64
	Notes       *string
}

// Upsert validates the entry, derives cost-per-lead, and writes the record,
// replacing any prior entry for the same (workspace, date).
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (repository.DailyMetric, error) {
	if input.WorkspaceID == uuid.Nil {
		return repository.DailyMetric{}, apperr.Validation("workspace id is required")
	}
	if input.Date.IsZero() {
		return repository.DailyMetric{}, apperr.Validation("date is required")
	}
	if input.Spend < 0 {
		return repository.DailyMetric{}, apperr.Validation("spend cannot be negative")
	}
	if input.Clicks < 0 {
		return repository.DailyMetric{}, apperr.Validation("clicks cannot be negative")
	}
	if input.Leads < 0 {
		return repository.DailyMetric{}, apperr.Validation("leads cannot be negative")
	}
	if input.Bookings < 0 {
		return repository.DailyMetric{}, apperr.Validation("bookings cannot be negative")
	}
	if input.Revenue != nil && *input.Revenue < 0 {
		return repository.DailyMetric{}, apperr.Validation("revenue cannot be negative")
	}

	metric, err := s.repo.Upsert(ctx, repository.UpsertParams{
		WorkspaceID: input.WorkspaceID,
		Date:        truncateToDay(input.Date),
		Spend:       input.Spend,
		Clicks:      input.Clicks,
		Leads:       input.Leads,
		Bookings:    input.Bookings,
		Revenue:     input.Revenue,
		CPL:         CostPerLead(input.Spend, input.Leads),
		Notes:       input.Notes,
	})
	if err != nil {
		s.log.DatabaseError("upsert_daily_metric", input.WorkspaceID.String(), err)
		return repository.DailyMetric{}, err
	}

	return metric, nil
}

// ListRange returns the stored metrics for the inclusive date range.
func (s *Service) ListRange(ctx context.Context, workspaceID uuid.UUID, from, to time.Time) ([]repository.DailyMetric, error) {
	if workspaceID == uuid.Nil {
		return nil, apperr.Validation("workspace id is required")
	}
	if to.Before(from) {
		return nil, apperr.Validation("invalid date range")
	}

	metrics, err := s.repo.ListRange(ctx, workspaceID, truncateToDay(from), truncateToDay(to))
	if err != nil {
		s.log.DatabaseError("list_daily_metrics", workspaceID.String(), err)
		return nil, err
	}
	return metrics, nil
}

// CostPerLead derives cpl = spend / leads, or 0 when there are no leads.
func CostPerLead(spend float64, leads int) float64 {
	if leads <= 0 {
		return 0
	}
	return spend / float64(leads)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
