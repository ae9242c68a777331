package scoring

import (
	"testing"

	"adpulse_backend/internal/leads/domain"
	"adpulse_backend/internal/leads/repository"
)

func strPtr(s string) *string { return &s }

func TestScore_QualifiedGoogleAdsLead(t *testing.T) {
	lead := repository.Lead{
		Source: "google_ads",
		Email:  strPtr("a@b.com"),
		UTM:    map[string]string{"utm_campaign": "x"},
		Stage:  domain.StageQualified,
	}

	// 30 source + 15 email + 10 utm + 20 stage
	if got := Score(lead); got != 75 {
		t.Fatalf("expected score 75, got %d", got)
	}
}

func TestScore_UnknownSourceFloor(t *testing.T) {
	lead := repository.Lead{
		Source: "Unknown-Channel",
		UTM:    map[string]string{},
		Stage:  domain.StageNew,
	}

	if got := Score(lead); got != 5 {
		t.Fatalf("expected unknown-source floor of 5, got %d", got)
	}
}

func TestScore_ClampsAt100(t *testing.T) {
	lead := repository.Lead{
		Source:   "google_ads",
		Email:    strPtr("a@b.com"),
		Phone:    strPtr("+31612345678"),
		UTM:      map[string]string{"utm_source": "google"},
		GCLID:    strPtr("Cj0KCQiA"),
		FBCLID:   strPtr("IwAR0abc"),
		Referrer: strPtr("https://example.com"),
		Stage:    domain.StageWon,
	}

	// Raw pools sum to 30+25+33+25 = 113 before the clamp.
	if got := Score(lead); got != 100 {
		t.Fatalf("expected clamped score 100, got %d", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	lead := repository.Lead{
		Source: "meta_ads",
		Phone:  strPtr("+31612345678"),
		UTM:    map[string]string{"utm_medium": "cpc"},
		Stage:  domain.StageContacted,
	}

	first := Score(lead)
	for i := 0; i < 50; i++ {
		if got := Score(lead); got != first {
			t.Fatalf("score not deterministic: first %d, run %d gave %d", first, i, got)
		}
	}
}

func TestScore_BoundsAcrossStages(t *testing.T) {
	stages := []string{
		domain.StageNew, domain.StageContacted, domain.StageBooked,
		domain.StageQualified, domain.StageWon, domain.StageLost,
	}

	for _, stage := range stages {
		lead := repository.Lead{Source: "tiktok", Stage: stage}
		got := Score(lead)
		if got < 0 || got > 100 {
			t.Fatalf("stage %q: score %d out of [0,100]", stage, got)
		}
	}
}

func TestScore_MonotonicInContactFields(t *testing.T) {
	base := repository.Lead{Source: "organic_search", Stage: domain.StageNew}

	withEmail := base
	withEmail.Email = strPtr("lead@example.com")
	if Score(withEmail) < Score(base) {
		t.Fatalf("adding an email decreased the score: %d < %d", Score(withEmail), Score(base))
	}

	withPhone := withEmail
	withPhone.Phone = strPtr("+14155552671")
	if Score(withPhone) < Score(withEmail) {
		t.Fatalf("adding a phone decreased the score: %d < %d", Score(withPhone), Score(withEmail))
	}
}

func TestScore_MonotonicInStageAdvance(t *testing.T) {
	fresh := repository.Lead{Source: "website", Stage: domain.StageNew}
	qualified := fresh
	qualified.Stage = domain.StageQualified

	if Score(qualified) < Score(fresh) {
		t.Fatalf("advancing new->qualified decreased the score: %d < %d", Score(qualified), Score(fresh))
	}
}

func TestNormalizeSource(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Google Ads", "google_ads"},
		{"google-ads", "google_ads"},
		{"  google_ads  ", "google_ads"},
		{"META ADS", "meta_ads"},
		{"TikTok", "tiktok"},
	}

	for _, tc := range cases {
		if got := NormalizeSource(tc.in); got != tc.want {
			t.Fatalf("NormalizeSource(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSourcePoints_EquivalentSpellings(t *testing.T) {
	spellings := []string{"Google Ads", "google-ads", "google_ads", "GOOGLE ADS"}
	for _, s := range spellings {
		if got := SourcePoints(s); got != 30 {
			t.Fatalf("SourcePoints(%q) = %d, want 30", s, got)
		}
	}
}

func TestSourcePoints_UnknownFallback(t *testing.T) {
	for _, s := range []string{"", "carrier-pigeon", "billboard"} {
		if got := SourcePoints(s); got != 5 {
			t.Fatalf("SourcePoints(%q) = %d, want fallback 5", s, got)
		}
	}
}
