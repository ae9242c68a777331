package transport

import (
	"time"

	"github.com/google/uuid"

	"adpulse_backend/internal/leads/repository"
	"adpulse_backend/internal/leads/service"
)

// SyncScoresRequest triggers a score sync for a workspace or one lead.
type SyncScoresRequest struct {
	WorkspaceID uuid.UUID  `json:"workspace_id" validate:"required"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
}

// SyncScoresResponse reports the outcome of a score sync run.
type SyncScoresResponse struct {
	Message string                `json:"message"`
	Updated int                   `json:"updated"`
	Total   int                   `json:"total"`
	Details []service.ScoreChange `json:"details"`
	Failed  []service.SyncFailure `json:"failed,omitempty"`
}

// SubmitLeadRequest captures a lead from a public form or ad click.
type SubmitLeadRequest struct {
	WorkspaceID uuid.UUID         `json:"workspace_id" validate:"required"`
	Name        string            `json:"name" validate:"required,min=1,max=200"`
	Email       *string           `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Phone       *string           `json:"phone,omitempty" validate:"omitempty,max=32"`
	Source      string            `json:"source" validate:"max=100"`
	UTM         map[string]string `json:"utm,omitempty"`
	GCLID       *string           `json:"gclid,omitempty" validate:"omitempty,max=200"`
	FBCLID      *string           `json:"fbclid,omitempty" validate:"omitempty,max=200"`
	Referrer    *string           `json:"referrer,omitempty" validate:"omitempty,max=2000"`
}

// UpdateStageRequest moves a lead to a new pipeline stage.
type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required,max=50"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Email     *string           `json:"email,omitempty"`
	Phone     *string           `json:"phone,omitempty"`
	Source    string            `json:"source"`
	UTM       map[string]string `json:"utm"`
	GCLID     *string           `json:"gclid,omitempty"`
	FBCLID    *string           `json:"fbclid,omitempty"`
	Referrer  *string           `json:"referrer,omitempty"`
	Stage     string            `json:"stage"`
	Score     int               `json:"score"`
	CreatedAt string            `json:"createdAt"`
}

// LeadListResponse wraps a list of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

// ToLeadResponse maps a stored lead to its API representation.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	utm := lead.UTM
	if utm == nil {
		utm = map[string]string{}
	}
	return LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Source:    lead.Source,
		UTM:       utm,
		GCLID:     lead.GCLID,
		FBCLID:    lead.FBCLID,
		Referrer:  lead.Referrer,
		Stage:     lead.Stage,
		Score:     lead.Score,
		CreatedAt: lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}
