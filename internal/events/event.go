// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"adpulse_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCaptured is published when a new lead is persisted from the public
// intake endpoint.
type LeadCaptured struct {
	BaseEvent
	WorkspaceID uuid.UUID `json:"workspaceId"`
	LeadID      uuid.UUID `json:"leadId"`
	Source      string    `json:"source"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// ScoresSynced is published after a score sync run completes for a workspace.
type ScoresSynced struct {
	BaseEvent
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Total       int       `json:"total"`
	Updated     int       `json:"updated"`
}

func (e ScoresSynced) EventName() string { return "leads.scores.synced" }
