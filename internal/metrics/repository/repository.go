package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const metricColumns = `workspace_id, metric_date, spend, clicks, leads, bookings, revenue, cpl, notes`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new daily metrics repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Upsert writes the record for (workspace, date), replacing every field of
// any prior entry. Last write wins; there is no merge of partial fields.
func (r *Repo) Upsert(ctx context.Context, params UpsertParams) (DailyMetric, error) {
	query := `
		INSERT INTO daily_metrics (workspace_id, metric_date, spend, clicks, leads, bookings, revenue, cpl, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (workspace_id, metric_date) DO UPDATE SET
			spend = EXCLUDED.spend,
			clicks = EXCLUDED.clicks,
			leads = EXCLUDED.leads,
			bookings = EXCLUDED.bookings,
			revenue = EXCLUDED.revenue,
			cpl = EXCLUDED.cpl,
			notes = EXCLUDED.notes
		RETURNING ` + metricColumns

	row := r.pool.QueryRow(ctx, query,
		params.WorkspaceID, params.Date, params.Spend, params.Clicks,
		params.Leads, params.Bookings, params.Revenue, params.CPL, params.Notes,
	)
	metric, err := scanMetric(row)
	if err != nil {
		return DailyMetric{}, fmt.Errorf("upsert daily metric: %w", err)
	}

	return metric, nil
}

// ListRange returns metrics within the inclusive date range, ascending.
func (r *Repo) ListRange(ctx context.Context, workspaceID uuid.UUID, from, to time.Time) ([]DailyMetric, error) {
	query := `
		SELECT ` + metricColumns + `
		FROM daily_metrics
		WHERE workspace_id = $1 AND metric_date >= $2 AND metric_date <= $3
		ORDER BY metric_date ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}
	defer rows.Close()

	metrics := make([]DailyMetric, 0)
	for rows.Next() {
		metric, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		metrics = append(metrics, metric)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily metrics: %w", err)
	}

	return metrics, nil
}

func scanMetric(row pgx.Row) (DailyMetric, error) {
	var m DailyMetric
	err := row.Scan(
		&m.WorkspaceID, &m.Date, &m.Spend, &m.Clicks, &m.Leads,
		&m.Bookings, &m.Revenue, &m.CPL, &m.Notes,
	)
	if err != nil {
		return DailyMetric{}, err
	}
	return m, nil
}
