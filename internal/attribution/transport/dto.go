package transport

import (
	"github.com/google/uuid"

	"adpulse_backend/internal/attribution/service"
)

// dateFormat is the wire format for series dates.
const dateFormat = "2006-01-02"

// AggregateRequest selects the workspace and trailing window to aggregate.
type AggregateRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
	RangeDays   int       `json:"range_days" validate:"required,min=1,max=365"`
}

// SourceBucket is one row of the leads-by-source view.
type SourceBucket struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// CampaignBucket is one row of the leads-by-campaign view.
type CampaignBucket struct {
	Campaign string `json:"campaign"`
	Source   string `json:"source"`
	Count    int    `json:"count"`
}

// SpendLeadsPoint is one day of the spend-vs-leads series.
type SpendLeadsPoint struct {
	Date  string  `json:"date"`
	Spend float64 `json:"spend"`
	Leads int     `json:"leads"`
}

// SummaryResponse holds window-level aggregates, including the
// cost-per-lead the handler derives from total spend and total leads.
type SummaryResponse struct {
	TotalLeads           int     `json:"totalLeads"`
	LeadsWithAttribution int     `json:"leadsWithAttribution"`
	TopSource            string  `json:"topSource"`
	TotalSpend           float64 `json:"totalSpend"`
	CostPerLead          float64 `json:"costPerLead"`
}

// AggregateResponse is the full aggregation payload.
type AggregateResponse struct {
	LeadsBySource   []SourceBucket    `json:"leadsBySource"`
	LeadsByCampaign []CampaignBucket  `json:"leadsByCampaign"`
	SpendVsLeads    []SpendLeadsPoint `json:"spendVsLeads"`
	Summary         SummaryResponse   `json:"summary"`
}

// ToAggregateResponse maps an aggregation result to its API representation.
// costPerLead is supplied by the caller.
func ToAggregateResponse(result service.Result, costPerLead float64) AggregateResponse {
	bySource := make([]SourceBucket, 0, len(result.BySource))
	for _, bucket := range result.BySource {
		bySource = append(bySource, SourceBucket{Source: bucket.Source, Count: bucket.Count})
	}

	byCampaign := make([]CampaignBucket, 0, len(result.ByCampaign))
	for _, bucket := range result.ByCampaign {
		byCampaign = append(byCampaign, CampaignBucket{
			Campaign: bucket.Campaign,
			Source:   bucket.Source,
			Count:    bucket.Count,
		})
	}

	series := make([]SpendLeadsPoint, 0, len(result.SpendVsLeads))
	for _, point := range result.SpendVsLeads {
		series = append(series, SpendLeadsPoint{
			Date:  point.Date.UTC().Format(dateFormat),
			Spend: point.Spend,
			Leads: point.Leads,
		})
	}

	return AggregateResponse{
		LeadsBySource:   bySource,
		LeadsByCampaign: byCampaign,
		SpendVsLeads:    series,
		Summary: SummaryResponse{
			TotalLeads:           result.Summary.TotalLeads,
			LeadsWithAttribution: result.Summary.LeadsWithAttribution,
			TopSource:            result.Summary.TopSource,
			TotalSpend:           result.Summary.TotalSpend,
			CostPerLead:          costPerLead,
		},
	}
}
