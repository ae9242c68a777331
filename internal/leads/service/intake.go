package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"adpulse_backend/internal/events"
	"adpulse_backend/internal/leads/domain"
	"adpulse_backend/internal/leads/repository"
	"adpulse_backend/internal/leads/scoring"
	"adpulse_backend/platform/apperr"
	"adpulse_backend/platform/phone"
)

// CaptureInput carries a lead submitted through the public intake endpoint.
// ClientKey identifies the submitter for rate limiting, typically the
// client IP.
type CaptureInput struct {
	WorkspaceID uuid.UUID
	ClientKey   string
	Name        string
	Email       *string
	Phone       *string
	Source      string
	UTM         map[string]string
	GCLID       *string
	FBCLID      *string
	Referrer    *string
}

// Capture validates, rate limits, scores, and persists a submitted lead.
// New leads always start in the "new" stage; the initial score is computed
// before the insert so the record never exists unscored.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (repository.Lead, error) {
	if strings.TrimSpace(input.Name) == "" {
		return repository.Lead{}, apperr.Validation("name is required")
	}
	if input.WorkspaceID == uuid.Nil {
		return repository.Lead{}, apperr.Validation("workspace id is required")
	}

	if err := s.allowSubmission(ctx, input.ClientKey); err != nil {
		return repository.Lead{}, err
	}

	normalizedPhone := input.Phone
	if input.Phone != nil && *input.Phone != "" {
		formatted := phone.NormalizeE164(*input.Phone)
		normalizedPhone = &formatted
	}

	params := repository.CreateParams{
		WorkspaceID: input.WorkspaceID,
		Name:        strings.TrimSpace(input.Name),
		Email:       input.Email,
		Phone:       normalizedPhone,
		Source:      input.Source,
		UTM:         input.UTM,
		GCLID:       input.GCLID,
		FBCLID:      input.FBCLID,
		Referrer:    input.Referrer,
		Stage:       domain.StageNew,
	}
	params.Score = scoring.Score(repository.Lead{
		Email:    params.Email,
		Phone:    params.Phone,
		Source:   params.Source,
		UTM:      params.UTM,
		GCLID:    params.GCLID,
		FBCLID:   params.FBCLID,
		Referrer: params.Referrer,
		Stage:    params.Stage,
	})

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		s.log.DatabaseError("create_lead", input.WorkspaceID.String(), err)
		return repository.Lead{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCaptured{
			BaseEvent:   events.NewBaseEvent(),
			WorkspaceID: lead.WorkspaceID,
			LeadID:      lead.ID,
			Source:      lead.Source,
		})
	}

	return lead, nil
}

// allowSubmission enforces the intake quota through the injected counter
// store. A missing client key skips the check rather than blocking trusted
// internal callers.
func (s *Service) allowSubmission(ctx context.Context, clientKey string) error {
	if s.counter == nil || clientKey == "" {
		return nil
	}

	key := fmt.Sprintf("intake:%s", clientKey)
	count, err := s.counter.Increment(ctx, key, s.intake.GetIntakeLimitWindow())
	if err != nil {
		// A broken counter store should not take lead capture down with it.
		s.log.Warn("intake rate limit store unavailable", "error", err.Error())
		return nil
	}

	if count > int64(s.intake.GetIntakeLimitPerWindow()) {
		return apperr.RateLimited("too many submissions, try again later")
	}
	return nil
}
