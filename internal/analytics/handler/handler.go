package handler

import (
	"net/http"

	"stageflow_backend/internal/analytics/service"
	"stageflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgMissingOrg = "organization context required"

// Handler handles HTTP requests for deal analytics.
type Handler struct {
	svc *service.Service
}

// New creates a new analytics handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the analytics routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Summary)
	rg.GET("/risks", h.Risks)
	rg.GET("/confidence", h.Confidence)
	rg.POST("/batch", h.Batch)
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

func (h *Handler) Summary(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	analytics, err := h.svc.Analytics(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, analytics)
}

func (h *Handler) Risks(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	risks, err := h.svc.Risks(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, risks)
}

func (h *Handler) Confidence(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	scores, err := h.svc.ConfidenceScores(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, scores)
}

func (h *Handler) Batch(c *gin.Context) {
	orgID, ok := mustGetOrgID(c)
	if !ok {
		return
	}

	result, err := h.svc.Batch(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
