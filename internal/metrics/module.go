// Package metrics provides the daily metrics bounded context: idempotent
// per-day upserts of ad spend and outcome figures, keyed by workspace and
// calendar date.
package metrics

import (
	apphttp "adpulse_backend/internal/http"
	"adpulse_backend/internal/metrics/handler"
	"adpulse_backend/internal/metrics/repository"
	"adpulse_backend/internal/metrics/service"
	"adpulse_backend/platform/logger"
	"adpulse_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the daily metrics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the metrics module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "metrics"
}

// Repository returns the repository for read access from sibling modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts daily metric routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/metrics/daily", m.handler.Log)
	ctx.Protected.GET("/metrics/daily", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
