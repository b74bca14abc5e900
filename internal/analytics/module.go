// Package analytics provides pooled analytics computations over deal data.
package analytics

import (
	"stageflow_backend/internal/analytics/handler"
	"stageflow_backend/internal/analytics/service"
	"stageflow_backend/internal/deals/repository"
	apphttp "stageflow_backend/internal/http"
	"stageflow_backend/internal/scoring"
	"stageflow_backend/platform/logger"
)

// Module represents the analytics domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new analytics module with its own worker pool.
func NewModule(repo repository.DealsRepository, templates service.TemplateSource, engine *scoring.Engine, poolSize int, log *logger.Logger) *Module {
	svc := service.New(repo, templates, engine, poolSize, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Close shuts down the module's worker pool.
func (m *Module) Close() {
	m.service.Close()
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/analytics"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
