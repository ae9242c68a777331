package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailyMetric is one spend/click/lead/booking record per (workspace, date).
// CPL is derived from spend and leads at write time; it is never accepted
// from callers.
type DailyMetric struct {
	WorkspaceID uuid.UUID
	Date        time.Time
	Spend       float64
	Clicks      int
	Leads       int
	Bookings    int
	Revenue     *float64
	CPL         float64
	Notes       *string
}

// UpsertParams contains the fields written for a (workspace, date) key.
// A second upsert for the same key replaces every field of the prior entry.
type UpsertParams struct {
	WorkspaceID uuid.UUID
	Date        time.Time
	Spend       float64
	Clicks      int
	Leads       int
	Bookings    int
	Revenue     *float64
	CPL         float64
	Notes       *string
}

// MetricReader provides read operations for daily metrics.
type MetricReader interface {
	// ListRange returns metrics with from <= date <= to, ascending.
	ListRange(ctx context.Context, workspaceID uuid.UUID, from, to time.Time) ([]DailyMetric, error)
}

// MetricWriter provides write operations for daily metrics.
type MetricWriter interface {
	Upsert(ctx context.Context, params UpsertParams) (DailyMetric, error)
}

// Repository combines all daily metric repository operations.
type Repository interface {
	MetricReader
	MetricWriter
}
