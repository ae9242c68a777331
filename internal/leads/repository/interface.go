package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective customer record captured from a form or ad click.
// Score is a cache derived from the other fields by the scoring engine;
// it is never hand-edited once a sync has run.
type Lead struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	Email       *string
	Phone       *string
	Source      string
	UTM         map[string]string
	GCLID       *string
	FBCLID      *string
	Referrer    *string
	Stage       string
	Score       int
	CreatedAt   time.Time
}

// CreateParams contains parameters for persisting a captured lead.
type CreateParams struct {
	WorkspaceID uuid.UUID
	Name        string
	Email       *string
	Phone       *string
	Source      string
	UTM         map[string]string
	GCLID       *string
	FBCLID      *string
	Referrer    *string
	Stage       string
	Score       int
}

// LeadReader provides read operations for leads.
type LeadReader interface {
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (Lead, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Lead, error)
	ListCreatedSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) ([]Lead, error)
	// ListWorkspaceIDs returns every workspace that has at least one lead.
	// The nightly full sync iterates this set.
	ListWorkspaceIDs(ctx context.Context) ([]uuid.UUID, error)
}

// LeadWriter provides write operations for leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	// UpdateScore persists only the score field of the lead; no other
	// column is touched.
	UpdateScore(ctx context.Context, workspaceID, id uuid.UUID, score int) error
	// UpdateStage moves the lead to a new pipeline stage and returns the
	// updated record.
	UpdateStage(ctx context.Context, workspaceID, id uuid.UUID, stage string) (Lead, error)
}

// Repository combines all lead repository operations.
type Repository interface {
	LeadReader
	LeadWriter
}
