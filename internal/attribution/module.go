// Package attribution provides the attribution bounded context: read-time
// grouped views over leads and daily metrics for the dashboard.
package attribution

import (
	"adpulse_backend/internal/attribution/handler"
	"adpulse_backend/internal/attribution/service"
	apphttp "adpulse_backend/internal/http"
	"adpulse_backend/platform/logger"
	"adpulse_backend/platform/validator"
)

// Module is the attribution bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the attribution module. It reads from
// the leads and metrics stores through narrow source interfaces so it never
// writes anything.
func NewModule(leads service.LeadSource, metrics service.MetricSource, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(leads, metrics, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "attribution"
}

// RegisterRoutes mounts attribution routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/attribution/aggregate", m.handler.Aggregate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
