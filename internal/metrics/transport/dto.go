package transport

import (
	"time"

	"github.com/google/uuid"

	"adpulse_backend/internal/metrics/repository"
)

// DateFormat is the wire format for metric dates.
const DateFormat = "2006-01-02"

// LogDailyMetricsRequest records one day's ad figures for a workspace.
type LogDailyMetricsRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
	Date        string    `json:"date" validate:"required"`
	Spend       float64   `json:"spend" validate:"gte=0"`
	Clicks      int       `json:"clicks" validate:"gte=0"`
	Leads       int       `json:"leads" validate:"gte=0"`
	Bookings    int       `json:"bookings" validate:"gte=0"`
	Revenue     *float64  `json:"revenue,omitempty" validate:"omitempty,gte=0"`
	Notes       *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListDailyMetricsRequest selects a trailing window of stored entries.
type ListDailyMetricsRequest struct {
	RangeDays int `form:"range_days" validate:"omitempty,min=1,max=365"`
}

// DailyMetricResponse represents a stored daily metric in API responses.
type DailyMetricResponse struct {
	Date     string   `json:"date"`
	Spend    float64  `json:"spend"`
	Clicks   int      `json:"clicks"`
	Leads    int      `json:"leads"`
	Bookings int      `json:"bookings"`
	Revenue  *float64 `json:"revenue,omitempty"`
	CPL      float64  `json:"cpl"`
	Notes    *string  `json:"notes,omitempty"`
}

// DailyMetricListResponse wraps a list of daily metrics.
type DailyMetricListResponse struct {
	Items []DailyMetricResponse `json:"items"`
	Total int                   `json:"total"`
}

// ToDailyMetricResponse maps a stored metric to its API representation.
func ToDailyMetricResponse(metric repository.DailyMetric) DailyMetricResponse {
	return DailyMetricResponse{
		Date:     metric.Date.UTC().Format(DateFormat),
		Spend:    metric.Spend,
		Clicks:   metric.Clicks,
		Leads:    metric.Leads,
		Bookings: metric.Bookings,
		Revenue:  metric.Revenue,
		CPL:      metric.CPL,
		Notes:    metric.Notes,
	}
}

// ParseDate parses the wire date format in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, value, time.UTC)
}
