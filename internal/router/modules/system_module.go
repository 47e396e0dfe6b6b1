package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/sisconis/identity-api/internal/interface/http"
)

// SystemModule exposes unauthenticated operational endpoints.

type SystemModule struct {
	Handler *handlers.SystemHandler
}

func NewSystemModule(h *handlers.SystemHandler) *SystemModule {
	return &SystemModule{Handler: h}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	sys := rg.Group("/system")
	{
		sys.GET("/health", m.Handler.Health)
		sys.GET("/ready", m.Handler.Readiness)
		sys.GET("/clock", m.Handler.Clock)
		sys.GET("/flags", m.Handler.FeatureFlags)
		sys.GET("/info", m.Handler.Info)
	}
}
