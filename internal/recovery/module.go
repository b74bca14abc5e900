// Package recovery provides the orphan recovery and pipeline migration module.
package recovery

import (
	"stageflow_backend/internal/deals/repository"
	apphttp "stageflow_backend/internal/http"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/internal/recovery/cache"
	"stageflow_backend/internal/recovery/handler"
	"stageflow_backend/internal/recovery/service"
	"stageflow_backend/internal/scheduler"
	"stageflow_backend/platform/events"
	"stageflow_backend/platform/logger"
	"stageflow_backend/platform/validator"
)

// Module represents the recovery domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new recovery module. Cache and scheduler are optional;
// pass nil when Redis is not configured.
func NewModule(repo repository.DealsRepository, reg *registry.Registry, templateCache *cache.TemplateCache, sched scheduler.RecalcScheduler, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, reg, log)
	if templateCache != nil {
		svc.SetCache(templateCache)
	}
	if sched != nil {
		svc.SetScheduler(sched)
	}
	if eventBus != nil {
		svc.SetEventBus(eventBus)
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "recovery"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	pipeline := ctx.Protected.Group("/pipeline")
	m.handler.RegisterRoutes(pipeline, ctx.Admin)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
