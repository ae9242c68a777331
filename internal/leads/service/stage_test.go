package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"adpulse_backend/internal/leads/domain"
	"adpulse_backend/platform/apperr"
)

func TestUpdateStage_RefreshesScore(t *testing.T) {
	repo := newFakeRepo()
	workspaceID := uuid.New()

	lead := staleLead(workspaceID, "google_ads", 0)
	lead.Score = 30
	repo.add(lead)

	svc := newTestService(repo)
	updated, err := svc.UpdateStage(context.Background(), workspaceID, lead.ID, domain.StageQualified)
	if err != nil {
		t.Fatalf("UpdateStage returned error: %v", err)
	}
	if updated.Stage != domain.StageQualified {
		t.Fatalf("expected stage %q, got %q", domain.StageQualified, updated.Stage)
	}
	// google_ads plus the qualified stage bonus.
	if updated.Score != 50 {
		t.Fatalf("expected score 50 after stage change, got %d", updated.Score)
	}

	stored, _ := repo.GetByID(context.Background(), workspaceID, lead.ID)
	if stored.Score != 50 {
		t.Fatalf("stored score %d, want 50", stored.Score)
	}
}

func TestUpdateStage_RejectsUnknownStage(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.UpdateStage(context.Background(), uuid.New(), uuid.New(), "archived")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStage_MissingLead(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.UpdateStage(context.Background(), uuid.New(), uuid.New(), domain.StageContacted)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
