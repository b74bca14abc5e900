package handler

import (
	"net/http"

	"stageflow_backend/internal/deals/service"
	"stageflow_backend/internal/deals/transport"
	"stageflow_backend/platform/httpkit"
	"stageflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingOrg       = "organization context required"
)

// Handler handles HTTP requests for deals.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new deals handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers deal routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/ingest", h.Ingest)
	rg.GET("/validate-stage", h.ValidateStage)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/stage", h.UpdateStage)
	rg.PUT("/:id/outcome", h.SetOutcome)
	rg.DELETE("/:id", h.Delete)
}

// mustGetOrgID resolves the tenant from the authenticated identity. Writes
// the error response itself when the identity carries no organization.
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

func (h *Handler) List(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	deals, err := h.svc.List(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToDealResponses(deals))
}

func (h *Handler) Get(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	deal, err := h.svc.Get(c.Request.Context(), orgID, c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToDealResponse(deal))
}

func (h *Handler) Ingest(c *gin.Context) {
	var req transport.IngestDealsRequest
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

	result, err := h.svc.Ingest(c.Request.Context(), orgID, req.Deals)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	var req transport.UpdateStageRequest
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

	deal, warning, err := h.svc.UpdateStage(c.Request.Context(), orgID, c.Param("id"), req.Stage)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.UpdateStageResponse{
		Deal:    transport.ToDealResponse(deal),
		Warning: warning,
	})
}

func (h *Handler) SetOutcome(c *gin.Context) {
	var req transport.SetOutcomeRequest
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

	deal, err := h.svc.SetOutcome(c.Request.Context(), orgID, c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToDealResponse(deal))
}

func (h *Handler) Delete(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), orgID, c.Param("id")); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ValidateStage(c *gin.Context) {
	stage := c.Query("stage")
	if stage == "" {
		httpkit.Error(c, http.StatusBadRequest, "stage query parameter required", nil)
		return
	}

	httpkit.OK(c, transport.StageValidationResponse{
		Stage:           stage,
		StageValidation: h.svc.ValidateStage(stage),
	})
}
