package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adpulse_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, workspace_id, name, email, phone, source, utm, gclid, fbclid, referrer, stage, score, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lead repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a lead by ID within a workspace.
func (r *Repo) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE id = $1 AND workspace_id = $2`

	row := r.pool.QueryRow(ctx, query, id, workspaceID)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}

// ListByWorkspace retrieves every lead belonging to a workspace, oldest first.
func (r *Repo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE workspace_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListCreatedSince retrieves leads created at or after the given instant,
// oldest first. Used by the attribution window queries.
func (r *Repo) ListCreatedSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE workspace_id = $1 AND created_at >= $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, since)
	if err != nil {
		return nil, fmt.Errorf("list leads since: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListWorkspaceIDs returns every workspace that currently has leads.
func (r *Repo) ListWorkspaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT workspace_id FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("list workspace ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan workspace id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace ids: %w", err)
	}
	return ids, nil
}

// Create persists a captured lead and returns the stored record.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (id, workspace_id, name, email, phone, source, utm, gclid, fbclid, referrer, stage, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		RETURNING ` + leadColumns

	utm := params.UTM
	if utm == nil {
		utm = map[string]string{}
	}

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.WorkspaceID, params.Name, params.Email, params.Phone,
		params.Source, utm, params.GCLID, params.FBCLID, params.Referrer,
		params.Stage, params.Score,
	)
	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

// UpdateScore writes the score column and nothing else. The WHERE clause
// includes the current score so a concurrent identical write is a no-op at
// the storage layer as well.
func (r *Repo) UpdateScore(ctx context.Context, workspaceID, id uuid.UUID, score int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET score = $1
		WHERE id = $2 AND workspace_id = $3 AND score <> $1`,
		score, id, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	// Zero rows can mean the row vanished or already carries this score;
	// both are acceptable for an idempotent point write.
	_ = tag
	return nil
}

// UpdateStage moves the lead to a new pipeline stage.
func (r *Repo) UpdateStage(ctx context.Context, workspaceID, id uuid.UUID, stage string) (Lead, error) {
	query := `
		UPDATE leads
		SET stage = $1
		WHERE id = $2 AND workspace_id = $3
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query, stage, id, workspaceID)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead stage: %w", err)
	}

	return lead, nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.WorkspaceID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Source, &lead.UTM, &lead.GCLID, &lead.FBCLID, &lead.Referrer,
		&lead.Stage, &lead.Score, &lead.CreatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}
