// Package deals provides the deals domain module.
package deals

import (
	"stageflow_backend/internal/deals/handler"
	"stageflow_backend/internal/deals/repository"
	"stageflow_backend/internal/deals/service"
	apphttp "stageflow_backend/internal/http"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/platform/events"
	"stageflow_backend/platform/logger"
	"stageflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the deals domain module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates a new deals module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, reg *registry.Registry, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, reg, log)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler:    h,
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "deals"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for modules that share the deal store.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	deals := ctx.Protected.Group("/deals")
	m.handler.RegisterRoutes(deals)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
