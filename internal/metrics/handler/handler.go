package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adpulse_backend/internal/metrics/service"
	"adpulse_backend/internal/metrics/transport"
	"adpulse_backend/platform/httpkit"
	"adpulse_backend/platform/validator"
)

// Handler handles HTTP requests for daily metrics.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidDate      = "invalid date, expected YYYY-MM-DD"

	defaultRangeDays = 30
)

// New creates a new daily metrics handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Log records one day's ad spend and outcome figures.
// POST /api/v1/metrics/daily
func (h *Handler) Log(c *gin.Context) {
	var req transport.LogDailyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if !httpkit.WorkspaceMatches(c, req.WorkspaceID) {
		return
	}

	date, err := transport.ParseDate(req.Date)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidDate, nil)
		return
	}

	metric, err := h.svc.Upsert(c.Request.Context(), service.UpsertInput{
		WorkspaceID: req.WorkspaceID,
		Date:        date,
		Spend:       req.Spend,
		Clicks:      req.Clicks,
		Leads:       req.Leads,
		Bookings:    req.Bookings,
		Revenue:     req.Revenue,
		Notes:       req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDailyMetricResponse(metric))
}

// List returns the stored metrics for a trailing window of days.
// GET /api/v1/metrics/daily?range_days=30
func (h *Handler) List(c *gin.Context) {
	workspaceID, ok := httpkit.MustWorkspaceID(c)
	if !ok {
		return
	}

	var req transport.ListDailyMetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rangeDays := req.RangeDays
	if rangeDays == 0 {
		rangeDays = defaultRangeDays
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -rangeDays)

	metrics, err := h.svc.ListRange(c.Request.Context(), workspaceID, from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.DailyMetricResponse, 0, len(metrics))
	for _, metric := range metrics {
		items = append(items, transport.ToDailyMetricResponse(metric))
	}
	httpkit.OK(c, transport.DailyMetricListResponse{Items: items, Total: len(items)})
}
