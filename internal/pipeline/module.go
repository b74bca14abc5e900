// Package pipeline provides the pipeline template and stage vocabulary module.
package pipeline

import (
	apphttp "stageflow_backend/internal/http"
	"stageflow_backend/internal/pipeline/handler"
	"stageflow_backend/internal/pipeline/registry"
	"stageflow_backend/internal/pipeline/service"
)

// Module represents the pipeline domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new pipeline module over the shared registry.
func NewModule(reg *registry.Registry) *Module {
	svc := service.New(reg)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "pipeline"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	pipeline := ctx.Protected.Group("/pipeline")
	m.handler.RegisterRoutes(pipeline)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
