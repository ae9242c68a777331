package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adpulse_backend/internal/events"
	"adpulse_backend/internal/leads/scoring"
)

// syncConcurrency bounds the parallel score writes of a batch run. Each
// lead update is an independent idempotent point write, so rows can be
// written concurrently without coordination.
const syncConcurrency = 8

// ScoreChange records one lead whose stored score differed from the
// recomputed one.
type ScoreChange struct {
	ID       uuid.UUID `json:"id"`
	OldScore int       `json:"oldScore"`
	NewScore int       `json:"newScore"`
}

// SyncFailure records a lead whose score write failed. The batch continues
// past failures; callers decide whether to retry.
type SyncFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// SyncReport summarizes a score sync run.
type SyncReport struct {
	Total    int
	Updated  int
	Changes  []ScoreChange
	Failures []SyncFailure
}

// SyncScores recomputes scores for one lead or for every lead in the
// workspace and writes back only the scores that changed.
//
// A workspace with zero leads and no explicit lead ID is a defined no-op,
// not an error. An explicit lead ID that does not resolve inside the
// workspace returns a not-found error.
func (s *Service) SyncScores(ctx context.Context, workspaceID uuid.UUID, leadID *uuid.UUID) (SyncReport, error) {
	if leadID != nil {
		return s.syncOne(ctx, workspaceID, *leadID)
	}
	return s.syncWorkspace(ctx, workspaceID)
}

func (s *Service) syncOne(ctx context.Context, workspaceID, leadID uuid.UUID) (SyncReport, error) {
	lead, err := s.repo.GetByID(ctx, workspaceID, leadID)
	if err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{Total: 1}
	newScore := scoring.Score(lead)
	if newScore == lead.Score {
		return report, nil
	}

	if err := s.repo.UpdateScore(ctx, workspaceID, lead.ID, newScore); err != nil {
		s.log.DatabaseError("sync_score", workspaceID.String(), err)
		return SyncReport{}, err
	}

	report.Updated = 1
	report.Changes = []ScoreChange{{ID: lead.ID, OldScore: lead.Score, NewScore: newScore}}
	return report, nil
}

func (s *Service) syncWorkspace(ctx context.Context, workspaceID uuid.UUID) (SyncReport, error) {
	leads, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		s.log.DatabaseError("list_leads", workspaceID.String(), err)
		return SyncReport{}, err
	}

	report := SyncReport{Total: len(leads)}
	if len(leads) == 0 {
		return report, nil
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(syncConcurrency)

	for _, lead := range leads {
		group.Go(func() error {
			newScore := scoring.Score(lead)
			if newScore == lead.Score {
				return nil
			}

			// Row failures go into the report; the batch is not a
			// transaction and keeps going.
			if err := s.repo.UpdateScore(groupCtx, workspaceID, lead.ID, newScore); err != nil {
				mu.Lock()
				report.Failures = append(report.Failures, SyncFailure{ID: lead.ID, Error: err.Error()})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			report.Updated++
			report.Changes = append(report.Changes, ScoreChange{
				ID:       lead.ID,
				OldScore: lead.Score,
				NewScore: newScore,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	s.log.ScoreSync(workspaceID.String(), report.Total, report.Updated, len(report.Failures))

	if s.bus != nil {
		s.bus.Publish(ctx, events.ScoresSynced{
			BaseEvent:   events.NewBaseEvent(),
			WorkspaceID: workspaceID,
			Total:       report.Total,
			Updated:     report.Updated,
		})
	}

	return report, nil
}

// SyncAllWorkspaces runs a full score sync for every workspace that has
// leads. Used by the nightly convergence job; per-workspace failures are
// logged and do not stop the remaining workspaces.
func (s *Service) SyncAllWorkspaces(ctx context.Context) (int, error) {
	workspaceIDs, err := s.repo.ListWorkspaceIDs(ctx)
	if err != nil {
		s.log.DatabaseError("list_workspace_ids", "", err)
		return 0, err
	}

	synced := 0
	for _, workspaceID := range workspaceIDs {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if _, err := s.syncWorkspace(ctx, workspaceID); err != nil {
			s.log.Error("workspace score sync failed",
				"workspace_id", workspaceID.String(),
				"error", err.Error(),
			)
			continue
		}
		synced++
	}
	return synced, nil
}
