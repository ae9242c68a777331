package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adpulse_backend/internal/leads/service"
	"adpulse_backend/internal/leads/transport"
	"adpulse_backend/platform/httpkit"
	"adpulse_backend/platform/validator"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SyncScores recomputes lead scores for a workspace or a single lead.
// POST /api/v1/leads/score/sync
func (h *Handler) SyncScores(c *gin.Context) {
	var req transport.SyncScoresRequest
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

	report, err := h.svc.SyncScores(c.Request.Context(), req.WorkspaceID, req.LeadID)
	if httpkit.HandleError(c, err) {
		return
	}

	details := report.Changes
	if details == nil {
		details = []service.ScoreChange{}
	}
	httpkit.OK(c, transport.SyncScoresResponse{
		Message: fmt.Sprintf("synced %d of %d leads", report.Updated, report.Total),
		Updated: report.Updated,
		Total:   report.Total,
		Details: details,
		Failed:  report.Failures,
	})
}

// Submit captures a lead from a public form.
// POST /api/v1/public/leads
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Capture(c.Request.Context(), service.CaptureInput{
		WorkspaceID: req.WorkspaceID,
		ClientKey:   c.ClientIP(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Source:      req.Source,
		UTM:         req.UTM,
		GCLID:       req.GCLID,
		FBCLID:      req.FBCLID,
		Referrer:    req.Referrer,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// UpdateStage moves a lead through the pipeline and refreshes its score.
// PATCH /api/v1/leads/:id/stage
func (h *Handler) UpdateStage(c *gin.Context) {
	workspaceID, ok := httpkit.MustWorkspaceID(c)
	if !ok {
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.UpdateStage(c.Request.Context(), workspaceID, leadID, req.Stage)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// List returns every lead in the caller's workspace.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	workspaceID, ok := httpkit.MustWorkspaceID(c)
	if !ok {
		return
	}

	leads, err := h.svc.List(c.Request.Context(), workspaceID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, transport.ToLeadResponse(lead))
	}
	httpkit.OK(c, transport.LeadListResponse{Items: items, Total: len(items)})
}
