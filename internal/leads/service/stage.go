package service

import (
	"context"

	"github.com/google/uuid"

	"adpulse_backend/internal/leads/domain"
	"adpulse_backend/internal/leads/repository"
	"adpulse_backend/internal/leads/scoring"
	"adpulse_backend/platform/apperr"
)

// UpdateStage moves a lead to a new pipeline stage and refreshes its score
// in the same call, so a stage change never leaves a stale score behind.
func (s *Service) UpdateStage(ctx context.Context, workspaceID, leadID uuid.UUID, stage string) (repository.Lead, error) {
	if !domain.IsKnownStage(stage) {
		return repository.Lead{}, apperr.Validation("unknown stage")
	}

	lead, err := s.repo.UpdateStage(ctx, workspaceID, leadID, stage)
	if err != nil {
		return repository.Lead{}, err
	}

	newScore := scoring.Score(lead)
	if newScore != lead.Score {
		if err := s.repo.UpdateScore(ctx, workspaceID, lead.ID, newScore); err != nil {
			s.log.DatabaseError("sync_score", workspaceID.String(), err)
			return repository.Lead{}, err
		}
		lead.Score = newScore
	}

	return lead, nil
}
