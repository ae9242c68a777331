package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	leadrepo "adpulse_backend/internal/leads/repository"
	metricrepo "adpulse_backend/internal/metrics/repository"
	"adpulse_backend/platform/apperr"
	"adpulse_backend/platform/logger"
)

type fakeLeadSource struct {
	leads []leadrepo.Lead
}

func (s *fakeLeadSource) ListCreatedSince(_ context.Context, workspaceID uuid.UUID, since time.Time) ([]leadrepo.Lead, error) {
	var out []leadrepo.Lead
	for _, lead := range s.leads {
		if lead.WorkspaceID == workspaceID && !lead.CreatedAt.Before(since) {
			out = append(out, lead)
		}
	}
	return out, nil
}

type fakeMetricSource struct {
	metrics []metricrepo.DailyMetric
}

func (s *fakeMetricSource) ListRange(_ context.Context, workspaceID uuid.UUID, from, to time.Time) ([]metricrepo.DailyMetric, error) {
	var out []metricrepo.DailyMetric
	for _, metric := range s.metrics {
		if metric.WorkspaceID == workspaceID && !metric.Date.Before(from) && !metric.Date.After(to) {
			out = append(out, metric)
		}
	}
	return out, nil
}

// fixedToday is the aggregation date every test pins the clock to.
var fixedToday = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

func newTestService(leads *fakeLeadSource, metrics *fakeMetricSource) *Service {
	return New(leads, metrics, logger.New("test")).WithClock(func() time.Time {
		return fixedToday.Add(9 * time.Hour)
	})
}

func lead(workspaceID uuid.UUID, source string, daysAgo int) leadrepo.Lead {
	return leadrepo.Lead{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Lead",
		Source:      source,
		Stage:       "new",
		CreatedAt:   fixedToday.AddDate(0, 0, -daysAgo).Add(11 * time.Hour),
	}
}

func withCampaign(l leadrepo.Lead, campaign string) leadrepo.Lead {
	l.UTM = map[string]string{"utm_campaign": campaign}
	return l
}

func TestAggregate_EmptyWorkspace(t *testing.T) {
	svc := newTestService(&fakeLeadSource{}, &fakeMetricSource{})

	result, err := svc.Aggregate(context.Background(), uuid.New(), 7)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(result.BySource) != 0 || len(result.ByCampaign) != 0 {
		t.Fatalf("expected empty groupings, got %+v", result)
	}
	if len(result.SpendVsLeads) != 7 {
		t.Fatalf("expected 7 zero-filled points, got %d", len(result.SpendVsLeads))
	}
	for _, point := range result.SpendVsLeads {
		if point.Spend != 0 || point.Leads != 0 {
			t.Fatalf("expected zero point, got %+v", point)
		}
	}
	if result.Summary.TopSource != "" {
		t.Fatalf("expected empty top source, got %q", result.Summary.TopSource)
	}
}

func TestAggregate_SeriesCoversExactWindow(t *testing.T) {
	workspaceID := uuid.New()
	leads := &fakeLeadSource{leads: []leadrepo.Lead{
		lead(workspaceID, "google_ads", 0),
		lead(workspaceID, "google_ads", 2),
	}}
	metrics := &fakeMetricSource{metrics: []metricrepo.DailyMetric{
		{WorkspaceID: workspaceID, Date: fixedToday.AddDate(0, 0, -2), Spend: 120},
		{WorkspaceID: workspaceID, Date: fixedToday, Spend: 80},
	}}

	svc := newTestService(leads, metrics)
	result, err := svc.Aggregate(context.Background(), workspaceID, 3)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	series := result.SpendVsLeads
	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}
	if !series[0].Date.Equal(fixedToday.AddDate(0, 0, -2)) {
		t.Fatalf("expected window start 2 days back, got %v", series[0].Date)
	}
	if !series[2].Date.Equal(fixedToday) {
		t.Fatalf("expected window end today, got %v", series[2].Date)
	}
	if series[0].Spend != 120 || series[0].Leads != 1 {
		t.Fatalf("unexpected first point %+v", series[0])
	}
	if series[1].Spend != 0 || series[1].Leads != 0 {
		t.Fatalf("expected zero-filled middle day, got %+v", series[1])
	}
	if series[2].Spend != 80 || series[2].Leads != 1 {
		t.Fatalf("unexpected last point %+v", series[2])
	}
	if result.Summary.TotalSpend != 200 {
		t.Fatalf("expected total spend 200, got %v", result.Summary.TotalSpend)
	}
}

func TestAggregate_GroupsBySourceWithDirectBucket(t *testing.T) {
	workspaceID := uuid.New()
	leads := &fakeLeadSource{leads: []leadrepo.Lead{
		lead(workspaceID, "google_ads", 0),
		lead(workspaceID, "google_ads", 1),
		lead(workspaceID, "", 1),
		lead(workspaceID, "referral", 2),
	}}

	svc := newTestService(leads, &fakeMetricSource{})
	result, err := svc.Aggregate(context.Background(), workspaceID, 7)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	if len(result.BySource) != 3 {
		t.Fatalf("expected 3 source buckets, got %+v", result.BySource)
	}
	if result.BySource[0].Source != "google_ads" || result.BySource[0].Count != 2 {
		t.Fatalf("expected google_ads first with 2, got %+v", result.BySource[0])
	}
	// The empty source folds into "direct"; the tie with referral keeps
	// first-seen order.
	if result.BySource[1].Source != "direct" || result.BySource[1].Count != 1 {
		t.Fatalf("expected direct second, got %+v", result.BySource[1])
	}
	if result.BySource[2].Source != "referral" {
		t.Fatalf("expected referral third, got %+v", result.BySource[2])
	}
	if result.Summary.TopSource != "google_ads" {
		t.Fatalf("expected top source google_ads, got %q", result.Summary.TopSource)
	}
}

func TestAggregate_CampaignViewExcludesUncampaigned(t *testing.T) {
	workspaceID := uuid.New()
	leads := &fakeLeadSource{leads: []leadrepo.Lead{
		withCampaign(lead(workspaceID, "google_ads", 0), "spring_sale"),
		withCampaign(lead(workspaceID, "google_ads", 1), "spring_sale"),
		withCampaign(lead(workspaceID, "meta_ads", 1), "spring_sale"),
		lead(workspaceID, "google_ads", 2),
	}}

	svc := newTestService(leads, &fakeMetricSource{})
	result, err := svc.Aggregate(context.Background(), workspaceID, 7)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	// Same campaign name under two sources stays two buckets.
	if len(result.ByCampaign) != 2 {
		t.Fatalf("expected 2 campaign buckets, got %+v", result.ByCampaign)
	}
	if result.ByCampaign[0].Campaign != "spring_sale" || result.ByCampaign[0].Source != "google_ads" || result.ByCampaign[0].Count != 2 {
		t.Fatalf("unexpected first campaign bucket %+v", result.ByCampaign[0])
	}
	if result.ByCampaign[1].Source != "meta_ads" || result.ByCampaign[1].Count != 1 {
		t.Fatalf("unexpected second campaign bucket %+v", result.ByCampaign[1])
	}

	// The campaign-less lead still counts in the by-source view.
	if result.BySource[0].Source != "google_ads" || result.BySource[0].Count != 3 {
		t.Fatalf("expected campaign-less lead in source view, got %+v", result.BySource[0])
	}
}

func TestAggregate_CountsLeadsWithAttribution(t *testing.T) {
	workspaceID := uuid.New()
	gclid := "abc123"
	referrer := "https://example.com/pricing"
	empty := ""

	withGCLID := lead(workspaceID, "google_ads", 0)
	withGCLID.GCLID = &gclid
	withReferrer := lead(workspaceID, "website", 1)
	withReferrer.Referrer = &referrer
	withEmptyGCLID := lead(workspaceID, "website", 1)
	withEmptyGCLID.GCLID = &empty
	bare := lead(workspaceID, "", 2)

	leads := &fakeLeadSource{leads: []leadrepo.Lead{
		withGCLID,
		withReferrer,
		withEmptyGCLID,
		bare,
		withCampaign(lead(workspaceID, "meta_ads", 3), "retargeting"),
	}}

	svc := newTestService(leads, &fakeMetricSource{})
	result, err := svc.Aggregate(context.Background(), workspaceID, 7)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if result.Summary.TotalLeads != 5 {
		t.Fatalf("expected 5 total leads, got %d", result.Summary.TotalLeads)
	}
	// Empty-string markers do not count as attribution.
	if result.Summary.LeadsWithAttribution != 3 {
		t.Fatalf("expected 3 attributed leads, got %d", result.Summary.LeadsWithAttribution)
	}
}

func TestAggregate_RejectsInvalidInput(t *testing.T) {
	svc := newTestService(&fakeLeadSource{}, &fakeMetricSource{})

	if _, err := svc.Aggregate(context.Background(), uuid.Nil, 7); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for nil workspace, got %v", err)
	}
	if _, err := svc.Aggregate(context.Background(), uuid.New(), 0); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for zero range, got %v", err)
	}
}

func TestAggregate_SingleDayWindow(t *testing.T) {
	workspaceID := uuid.New()
	leads := &fakeLeadSource{leads: []leadrepo.Lead{
		lead(workspaceID, "google_ads", 0),
		// Yesterday's lead falls outside a 1-day window.
		lead(workspaceID, "google_ads", 1),
	}}

	svc := newTestService(leads, &fakeMetricSource{})
	result, err := svc.Aggregate(context.Background(), workspaceID, 1)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(result.SpendVsLeads) != 1 {
		t.Fatalf("expected single point, got %d", len(result.SpendVsLeads))
	}
	if result.Summary.TotalLeads != 1 {
		t.Fatalf("expected only today's lead, got %d", result.Summary.TotalLeads)
	}
}
