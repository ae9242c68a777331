package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"adpulse_backend/internal/leads/domain"
	"adpulse_backend/internal/leads/repository"
	"adpulse_backend/internal/leads/scoring"
	"adpulse_backend/platform/apperr"
	"adpulse_backend/platform/logger"
)

type fakeRepo struct {
	mu        sync.Mutex
	leads     map[uuid.UUID]repository.Lead
	order     []uuid.UUID
	updateErr map[uuid.UUID]error
	updates   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:     make(map[uuid.UUID]repository.Lead),
		updateErr: make(map[uuid.UUID]error),
	}
}

func (r *fakeRepo) add(lead repository.Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = lead
	r.order = append(r.order, lead.ID)
}

func (r *fakeRepo) GetByID(_ context.Context, workspaceID, id uuid.UUID) (repository.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok || lead.WorkspaceID != workspaceID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (r *fakeRepo) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]repository.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Lead
	for _, id := range r.order {
		if lead := r.leads[id]; lead.WorkspaceID == workspaceID {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListCreatedSince(_ context.Context, workspaceID uuid.UUID, since time.Time) ([]repository.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Lead
	for _, id := range r.order {
		lead := r.leads[id]
		if lead.WorkspaceID == workspaceID && !lead.CreatedAt.Before(since) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListWorkspaceIDs(_ context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, id := range r.order {
		workspaceID := r.leads[id].WorkspaceID
		if !seen[workspaceID] {
			seen[workspaceID] = true
			out = append(out, workspaceID)
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:          uuid.New(),
		WorkspaceID: params.WorkspaceID,
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Source:      params.Source,
		UTM:         params.UTM,
		GCLID:       params.GCLID,
		FBCLID:      params.FBCLID,
		Referrer:    params.Referrer,
		Stage:       params.Stage,
		Score:       params.Score,
		CreatedAt:   time.Now().UTC(),
	}
	r.add(lead)
	return lead, nil
}

func (r *fakeRepo) UpdateScore(_ context.Context, workspaceID, id uuid.UUID, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.updateErr[id]; ok {
		return err
	}
	lead, ok := r.leads[id]
	if !ok || lead.WorkspaceID != workspaceID {
		return apperr.NotFound("lead not found")
	}
	lead.Score = score
	r.leads[id] = lead
	r.updates++
	return nil
}

func (r *fakeRepo) UpdateStage(_ context.Context, workspaceID, id uuid.UUID, stage string) (repository.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok || lead.WorkspaceID != workspaceID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	lead.Stage = stage
	r.leads[id] = lead
	return lead, nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, nil, nil, intakeSettings{limit: 100, window: time.Minute}, logger.New("test"))
}

func strPtr(s string) *string { return &s }

func staleLead(workspaceID uuid.UUID, source string, score int) repository.Lead {
	return repository.Lead{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Test Lead",
		Source:      source,
		Stage:       domain.StageNew,
		Score:       score,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestSyncScores_WritesOnlyChangedScores(t *testing.T) {
	repo := newFakeRepo()
	workspaceID := uuid.New()

	stale := staleLead(workspaceID, "google_ads", 0)
	repo.add(stale)

	current := staleLead(workspaceID, "website", 0)
	current.Score = scoring.Score(current)
	repo.add(current)

	svc := newTestService(repo)
	report, err := svc.SyncScores(context.Background(), workspaceID, nil)
	if err != nil {
		t.Fatalf("SyncScores returned error: %v", err)
	}
	if report.Total != 2 {
		t.Fatalf("expected total 2, got %d", report.Total)
	}
	if report.Updated != 1 {
		t.Fatalf("expected 1 update, got %d", report.Updated)
	}
	if repo.updates != 1 {
		t.Fatalf("expected exactly 1 write, got %d", repo.updates)
	}
	if len(report.Changes) != 1 || report.Changes[0].ID != stale.ID {
		t.Fatalf("expected change for lead %s, got %+v", stale.ID, report.Changes)
	}
	if report.Changes[0].NewScore != scoring.Score(stale) {
		t.Fatalf("expected new score %d, got %d", scoring.Score(stale), report.Changes[0].NewScore)
	}
}

func TestSyncScores_SecondRunIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	workspaceID := uuid.New()
	repo.add(staleLead(workspaceID, "google_ads", 0))
	repo.add(staleLead(workspaceID, "referral", 3))

	svc := newTestService(repo)
	first, err := svc.SyncScores(context.Background(), workspaceID, nil)
	if err != nil {
		t.Fatalf("first sync returned error: %v", err)
	}
	if first.Updated != 2 {
		t.Fatalf("expected 2 updates on first run, got %d", first.Updated)
	}

	second, err := svc.SyncScores(context.Background(), workspaceID, nil)
	if err != nil {
		t.Fatalf("second sync returned error: %v", err)
	}
	if second.Updated != 0 {
		t.Fatalf("expected no updates on second run, got %d", second.Updated)
	}
	if repo.updates != 2 {
		t.Fatalf("expected no extra writes, total writes %d", repo.updates)
	}
}

func TestSyncScores_EmptyWorkspace(t *testing.T) {
	svc := newTestService(newFakeRepo())

	report, err := svc.SyncScores(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("expected no error for empty workspace, got %v", err)
	}
	if report.Total != 0 || report.Updated != 0 {
		t.Fatalf("expected zero totals, got %+v", report)
	}
}

func TestSyncScores_MissingLeadID(t *testing.T) {
	svc := newTestService(newFakeRepo())

	missing := uuid.New()
	_, err := svc.SyncScores(context.Background(), uuid.New(), &missing)
	if err == nil {
		t.Fatal("expected error for missing lead")
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found kind, got %v", apperr.GetKind(err))
	}
}

func TestSyncScores_SingleLead(t *testing.T) {
	repo := newFakeRepo()
	workspaceID := uuid.New()
	lead := staleLead(workspaceID, "google_ads", 0)
	repo.add(lead)

	svc := newTestService(repo)
	report, err := svc.SyncScores(context.Background(), workspaceID, &lead.ID)
	if err != nil {
		t.Fatalf("SyncScores returned error: %v", err)
	}
	if report.Total != 1 || report.Updated != 1 {
		t.Fatalf("expected single update, got %+v", report)
	}

	got, _ := repo.GetByID(context.Background(), workspaceID, lead.ID)
	if got.Score != scoring.Score(lead) {
		t.Fatalf("stored score %d, want %d", got.Score, scoring.Score(lead))
	}
	if got.Stage != lead.Stage || got.Name != lead.Name {
		t.Fatal("sync touched fields other than score")
	}
}

func TestSyncScores_RowFailureDoesNotAbortBatch(t *testing.T) {
	repo := newFakeRepo()
	workspaceID := uuid.New()

	broken := staleLead(workspaceID, "google_ads", 0)
	repo.add(broken)
	repo.updateErr[broken.ID] = apperr.Internal("write failed")

	healthy := staleLead(workspaceID, "referral", 0)
	repo.add(healthy)

	svc := newTestService(repo)
	report, err := svc.SyncScores(context.Background(), workspaceID, nil)
	if err != nil {
		t.Fatalf("batch should not fail on row errors, got %v", err)
	}
	if report.Updated != 1 {
		t.Fatalf("expected healthy lead updated, got %d", report.Updated)
	}
	if len(report.Failures) != 1 || report.Failures[0].ID != broken.ID {
		t.Fatalf("expected failure recorded for %s, got %+v", broken.ID, report.Failures)
	}
}

func TestSyncAllWorkspaces(t *testing.T) {
	repo := newFakeRepo()
	first := uuid.New()
	second := uuid.New()
	repo.add(staleLead(first, "google_ads", 0))
	repo.add(staleLead(second, "referral", 0))

	svc := newTestService(repo)
	synced, err := svc.SyncAllWorkspaces(context.Background())
	if err != nil {
		t.Fatalf("SyncAllWorkspaces returned error: %v", err)
	}
	if synced != 2 {
		t.Fatalf("expected 2 workspaces synced, got %d", synced)
	}
	if repo.updates != 2 {
		t.Fatalf("expected 2 score writes, got %d", repo.updates)
	}
}
