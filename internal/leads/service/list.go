package service

import (
	"context"

	"github.com/google/uuid"

	"adpulse_backend/internal/leads/repository"
)

// List returns every lead in the workspace, oldest first.
func (s *Service) List(ctx context.Context, workspaceID uuid.UUID) ([]repository.Lead, error) {
	leads, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		s.log.DatabaseError("list_leads", workspaceID.String(), err)
		return nil, err
	}
	return leads, nil
}
