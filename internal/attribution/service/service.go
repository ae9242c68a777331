// Package service implements the attribution aggregator: read-time
// projections of leads and daily metrics over a trailing date window.
// Nothing here is persisted; every call recomputes from the stores.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	leadrepo "adpulse_backend/internal/leads/repository"
	metricrepo "adpulse_backend/internal/metrics/repository"
	"adpulse_backend/platform/apperr"
	"adpulse_backend/platform/logger"
)

// directBucket is the grouping label for leads with no source value.
const directBucket = "direct"

// utmCampaignKey is the UTM key that drives the by-campaign view.
const utmCampaignKey = "utm_campaign"

// LeadSource provides the lead reads the aggregator needs.
type LeadSource interface {
	ListCreatedSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) ([]leadrepo.Lead, error)
}

// MetricSource provides the daily metric reads the aggregator needs.
type MetricSource interface {
	ListRange(ctx context.Context, workspaceID uuid.UUID, from, to time.Time) ([]metricrepo.DailyMetric, error)
}

// Service derives grouped attribution views from leads and daily metrics.
type Service struct {
	leads   LeadSource
	metrics MetricSource
	log     *logger.Logger
	now     func() time.Time
}

// New creates a new attribution service.
func New(leads LeadSource, metrics MetricSource, log *logger.Logger) *Service {
	return &Service{
		leads:   leads,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// WithClock overrides the time source. Only tests use this.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SourceCount is one bucket of the by-source view.
type SourceCount struct {
	Source string
	Count  int
}

// CampaignCount is one bucket of the by-campaign view. Identical
// (campaign, source) pairs merge into a single bucket.
type CampaignCount struct {
	Campaign string
	Source   string
	Count    int
}

// SpendLeadsPoint pairs one calendar date's ad spend with the number of
// leads created that day.
type SpendLeadsPoint struct {
	Date  time.Time
	Spend float64
	Leads int
}

// Summary holds the window-level aggregates. TotalSpend is the sum of the
// spend series; cost-per-lead is derived by the caller from TotalSpend and
// TotalLeads so the division guard lives in exactly one place.
type Summary struct {
	TotalLeads           int
	LeadsWithAttribution int
	TopSource            string
	TotalSpend           float64
}

// Result is the full output of one aggregation run.
type Result struct {
	BySource     []SourceCount
	ByCampaign   []CampaignCount
	SpendVsLeads []SpendLeadsPoint
	Summary      Summary
}

// Aggregate computes the attribution views for the trailing rangeDays
// window ending today (server UTC date, boundaries inclusive). The spend
// series always has exactly rangeDays points; days without a metric row
// report zero spend and days without leads report zero leads.
func (s *Service) Aggregate(ctx context.Context, workspaceID uuid.UUID, rangeDays int) (Result, error) {
	if workspaceID == uuid.Nil {
		return Result{}, apperr.Validation("workspace id is required")
	}
	if rangeDays < 1 {
		return Result{}, apperr.Validation("range days must be at least 1")
	}

	today := truncateToDay(s.now().UTC())
	windowStart := today.AddDate(0, 0, -(rangeDays - 1))

	leads, err := s.leads.ListCreatedSince(ctx, workspaceID, windowStart)
	if err != nil {
		s.log.DatabaseError("attribution_list_leads", workspaceID.String(), err)
		return Result{}, err
	}

	metrics, err := s.metrics.ListRange(ctx, workspaceID, windowStart, today)
	if err != nil {
		s.log.DatabaseError("attribution_list_metrics", workspaceID.String(), err)
		return Result{}, err
	}

	result := Result{
		BySource:     groupBySource(leads),
		ByCampaign:   groupByCampaign(leads),
		SpendVsLeads: buildSpendSeries(windowStart, rangeDays, leads, metrics),
	}

	result.Summary = Summary{
		TotalLeads:           len(leads),
		LeadsWithAttribution: countWithAttribution(leads),
		TopSource:            topSource(result.BySource),
		TotalSpend:           sumSpend(result.SpendVsLeads),
	}

	return result, nil
}

// groupBySource buckets leads by source with empty sources folded into the
// "direct" bucket, ordered by count descending. The sort is stable so ties
// keep first-seen insertion order.
func groupBySource(leads []leadrepo.Lead) []SourceCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, lead := range leads {
		bucket := sourceBucket(lead.Source)
		if _, seen := counts[bucket]; !seen {
			order = append(order, bucket)
		}
		counts[bucket]++
	}

	grouped := make([]SourceCount, 0, len(order))
	for _, bucket := range order {
		grouped = append(grouped, SourceCount{Source: bucket, Count: counts[bucket]})
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Count > grouped[j].Count
	})

	return grouped
}

// groupByCampaign buckets leads by (utm_campaign, source). Leads without a
// campaign value are excluded from this view; they still count in the
// by-source view.
func groupByCampaign(leads []leadrepo.Lead) []CampaignCount {
	type key struct {
		campaign string
		source   string
	}

	counts := make(map[key]int)
	order := make([]key, 0)

	for _, lead := range leads {
		campaign := lead.UTM[utmCampaignKey]
		if campaign == "" {
			continue
		}
		k := key{campaign: campaign, source: sourceBucket(lead.Source)}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	grouped := make([]CampaignCount, 0, len(order))
	for _, k := range order {
		grouped = append(grouped, CampaignCount{Campaign: k.campaign, Source: k.source, Count: counts[k]})
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Count > grouped[j].Count
	})

	return grouped
}

// buildSpendSeries emits exactly rangeDays points, one per calendar date,
// zero-filling days that have no metric row or no leads.
func buildSpendSeries(windowStart time.Time, rangeDays int, leads []leadrepo.Lead, metrics []metricrepo.DailyMetric) []SpendLeadsPoint {
	spendByDay := make(map[string]float64, len(metrics))
	for _, metric := range metrics {
		spendByDay[dayKey(metric.Date)] = metric.Spend
	}

	leadsByDay := make(map[string]int)
	for _, lead := range leads {
		leadsByDay[dayKey(lead.CreatedAt)]++
	}

	series := make([]SpendLeadsPoint, 0, rangeDays)
	for i := 0; i < rangeDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		key := dayKey(day)
		series = append(series, SpendLeadsPoint{
			Date:  day,
			Spend: spendByDay[key],
			Leads: leadsByDay[key],
		})
	}

	return series
}

func countWithAttribution(leads []leadrepo.Lead) int {
	count := 0
	for _, lead := range leads {
		if hasAttribution(lead) {
			count++
		}
	}
	return count
}

// hasAttribution reports whether any attribution marker is present.
func hasAttribution(lead leadrepo.Lead) bool {
	if len(lead.UTM) > 0 {
		return true
	}
	if lead.GCLID != nil && *lead.GCLID != "" {
		return true
	}
	if lead.FBCLID != nil && *lead.FBCLID != "" {
		return true
	}
	return lead.Referrer != nil && *lead.Referrer != ""
}

// topSource returns the highest-count bucket, or "" for an empty window.
// Ties already resolved by the stable by-source ordering.
func topSource(bySource []SourceCount) string {
	if len(bySource) == 0 {
		return ""
	}
	return bySource[0].Source
}

func sumSpend(series []SpendLeadsPoint) float64 {
	total := 0.0
	for _, point := range series {
		total += point.Spend
	}
	return total
}

func sourceBucket(source string) string {
	if source == "" {
		return directBucket
	}
	return source
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
