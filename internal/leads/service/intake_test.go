package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"adpulse_backend/internal/leads/domain"
	"adpulse_backend/platform/apperr"
	"adpulse_backend/platform/logger"
	"adpulse_backend/platform/ratelimit"
)

type intakeSettings struct {
	limit  int
	window time.Duration
}

func (s intakeSettings) GetIntakeLimitPerWindow() int        { return s.limit }
func (s intakeSettings) GetIntakeLimitWindow() time.Duration { return s.window }

func TestCapture_NewLeadStartsScored(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, intakeSettings{limit: 100, window: time.Minute}, logger.New("test"))

	lead, err := svc.Capture(context.Background(), CaptureInput{
		WorkspaceID: uuid.New(),
		ClientKey:   "203.0.113.9",
		Name:        "Dana Fields",
		Email:       strPtr("dana@example.com"),
		Phone:       strPtr("650-253-0000"),
		Source:      "Google Ads",
	})
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}

	if lead.Stage != domain.StageNew {
		t.Fatalf("expected stage %q, got %q", domain.StageNew, lead.Stage)
	}
	// google_ads source, email, and phone contribute; the new stage adds nothing.
	if lead.Score != 55 {
		t.Fatalf("expected initial score 55, got %d", lead.Score)
	}
	if lead.Phone == nil || *lead.Phone != "+16502530000" {
		t.Fatalf("expected E.164 phone, got %v", lead.Phone)
	}
}

func TestCapture_RequiresName(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, intakeSettings{limit: 100, window: time.Minute}, logger.New("test"))

	_, err := svc.Capture(context.Background(), CaptureInput{
		WorkspaceID: uuid.New(),
		Name:        "   ",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCapture_RateLimitPerClientKey(t *testing.T) {
	repo := newFakeRepo()
	counter := ratelimit.NewMemoryCounter()
	svc := New(repo, nil, counter, intakeSettings{limit: 2, window: time.Minute}, logger.New("test"))

	input := CaptureInput{
		WorkspaceID: uuid.New(),
		ClientKey:   "198.51.100.7",
		Name:        "Repeat Submitter",
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Capture(context.Background(), input); err != nil {
			t.Fatalf("capture %d should pass, got %v", i+1, err)
		}
	}

	_, err := svc.Capture(context.Background(), input)
	if apperr.GetKind(err) != apperr.KindRateLimited {
		t.Fatalf("expected rate limited error, got %v", err)
	}

	// A different client key is unaffected by the exhausted quota.
	other := input
	other.ClientKey = "198.51.100.8"
	if _, err := svc.Capture(context.Background(), other); err != nil {
		t.Fatalf("other client should pass, got %v", err)
	}
}
