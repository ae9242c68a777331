// Package leads provides the lead bounded context: public intake, listing,
// and the score sync engine.
package leads

import (
	"adpulse_backend/internal/events"
	apphttp "adpulse_backend/internal/http"
	"adpulse_backend/internal/leads/handler"
	"adpulse_backend/internal/leads/repository"
	"adpulse_backend/internal/leads/service"
	"adpulse_backend/platform/config"
	"adpulse_backend/platform/logger"
	"adpulse_backend/platform/ratelimit"
	"adpulse_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, counter ratelimit.CounterStore, intake config.IntakeConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, counter, intake, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use (the worker reuses it).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for read access from sibling modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public intake, rate limited per IP on top of the per-key quota
	// enforced inside the service.
	ctx.V1.POST("/public/leads", ctx.PublicRateLimiter.RateLimit(), m.handler.Submit)

	ctx.Protected.GET("/leads", m.handler.List)
	ctx.Protected.PATCH("/leads/:id/stage", m.handler.UpdateStage)
	ctx.Protected.POST("/leads/score/sync", m.handler.SyncScores)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
