package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adpulse_backend/internal/attribution/service"
	"adpulse_backend/internal/attribution/transport"
	metricsservice "adpulse_backend/internal/metrics/service"
	"adpulse_backend/platform/httpkit"
	"adpulse_backend/platform/validator"
)

// Handler handles HTTP requests for attribution aggregation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new attribution handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Aggregate computes the attribution views for a trailing window.
// POST /api/v1/attribution/aggregate
func (h *Handler) Aggregate(c *gin.Context) {
	var req transport.AggregateRequest
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

	result, err := h.svc.Aggregate(c.Request.Context(), req.WorkspaceID, req.RangeDays)
	if httpkit.HandleError(c, err) {
		return
	}

	// Cost-per-lead is derived here, not in the aggregator, so the
	// zero-leads guard lives in a single shared helper.
	costPerLead := metricsservice.CostPerLead(result.Summary.TotalSpend, result.Summary.TotalLeads)
	httpkit.OK(c, transport.ToAggregateResponse(result, costPerLead))
}
