package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sisconis/identity-api/internal/application"
	"github.com/sisconis/identity-api/pkg/response"
)

type SystemHandler struct {
	Svc *application.SystemService
}

func NewSystemHandler(svc *application.SystemService) *SystemHandler {
	return &SystemHandler{Svc: svc}
}

func (h *SystemHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Health(), "health", nil)
}

// Readiness answers 503 when any backing store check fails, so it can be
// used directly as a readiness probe.
func (h *SystemHandler) Readiness(c *gin.Context) {
	status := h.Svc.Readiness(c.Request.Context())
	if !status.IsReady() {
		response.Error[any](c, http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable", status)
		return
	}
	response.Success(c, http.StatusOK, status, "ready", nil)
}

func (h *SystemHandler) Clock(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Clock(), "clock", nil)
}

func (h *SystemHandler) FeatureFlags(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.FeatureFlags(), "feature flags", nil)
}

func (h *SystemHandler) Info(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.Info(), "system info", nil)
}
