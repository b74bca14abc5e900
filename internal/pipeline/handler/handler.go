package handler

import (
	"net/http"

	"stageflow_backend/internal/pipeline/service"
	"stageflow_backend/internal/pipeline/transport"
	"stageflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for pipeline templates and stages.
type Handler struct {
	svc *service.Service
}

// New creates a new pipeline handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers pipeline routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.ListTemplates)
	rg.GET("/templates/:id", h.GetTemplate)
	rg.GET("/stages", h.ListStages)
	rg.GET("/map-stage", h.MapStage)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	httpkit.OK(c, transport.ToTemplateResponses(h.svc.Templates()))
}

func (h *Handler) GetTemplate(c *gin.Context) {
	template, err := h.svc.Template(c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTemplateResponse(template))
}

func (h *Handler) ListStages(c *gin.Context) {
	httpkit.OK(c, h.svc.Stages())
}

func (h *Handler) MapStage(c *gin.Context) {
	stage := c.Query("stage")
	target := c.Query("target")
	if stage == "" || target == "" {
		httpkit.Error(c, http.StatusBadRequest, "stage and target query parameters required", nil)
		return
	}

	mapped := h.svc.MapStage(stage, target)
	httpkit.OK(c, transport.MapStageResponse{
		Stage:          stage,
		TargetTemplate: target,
		MappedStage:    mapped,
		ImpliedStatus:  h.svc.StatusForStage(mapped),
	})
}
