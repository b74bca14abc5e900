package handler

import (
	"net/http"

	"stageflow_backend/internal/recovery/service"
	"stageflow_backend/internal/recovery/transport"
	"stageflow_backend/platform/httpkit"
	"stageflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingOrg       = "organization context required"
)

// Handler handles HTTP requests for pipeline recovery and migration.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new recovery handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers recovery routes. Migration is admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rg.GET("/active-template", h.ActiveTemplate)
	rg.GET("/health", h.Health)
	rg.GET("/orphans", h.Orphans)
	admin.POST("/recovery/recover", h.Recover)
	admin.POST("/recovery/migrate", h.Migrate)
}

func mustGetOrgID(c *gin.Context) (string, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return "", false
	}
	orgID := identity.OrgID()
	if orgID == nil {
		httpkit.Error(c, http.StatusForbidden, msgMissingOrg, nil)
		return "", false
	}
	return orgID.String(), true
}

// activeStages resolves the organization's current template stage list.
func (h *Handler) activeStages(c *gin.Context, orgID string) ([]string, string, bool) {
	templateID, err := h.svc.ActiveTemplateID(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return nil, "", false
	}
	stages, err := h.svc.TemplateStages(templateID)
	if httpkit.HandleError(c, err) {
		return nil, "", false
	}
	return stages, templateID, true
}

func (h *Handler) ActiveTemplate(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	templateID, err := h.svc.ActiveTemplateID(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ActiveTemplateResponse{TemplateID: templateID})
}

func (h *Handler) Health(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}
	stages, _, ok := h.activeStages(c, orgID)
	if !ok {
		return
	}

	report, err := h.svc.PipelineHealth(c.Request.Context(), orgID, stages)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, report)
}

func (h *Handler) Orphans(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}
	stages, _, ok := h.activeStages(c, orgID)
	if !ok {
		return
	}

	orphaned, err := h.svc.FindOrphanedDeals(c.Request.Context(), orgID, stages)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, orphaned)
}

func (h *Handler) Recover(c *gin.Context) {
	var req transport.RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}
	stages, _, ok := h.activeStages(c, orgID)
	if !ok {
		return
	}

	result, err := h.svc.RecoverOrphanedDeals(c.Request.Context(), orgID, stages, req.DryRun)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Migrate(c *gin.Context) {
	var req transport.MigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	fromTemplate, err := h.svc.ActiveTemplateID(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.MigratePipeline(c.Request.Context(), orgID, fromTemplate, req.ToTemplate, req.DryRun)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
