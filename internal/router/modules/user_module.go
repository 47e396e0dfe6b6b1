package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sisconis/identity-api/internal/container"
	handlers "github.com/sisconis/identity-api/internal/interface/http"
	"github.com/sisconis/identity-api/internal/interface/middleware"
	"github.com/sisconis/identity-api/pkg/helpers"
)

// UserModule wires the user CRUD and password routes.
// Everything here sits behind authentication.

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	// Soft per-IP limiter plus a tighter per-user one on all user routes
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)

	// Password endpoints get their own tighter window
	pwdLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.PATCH("/:id/password", pwdLimiter, m.Handler.ChangePassword)
		auth.POST("/:id/password/reset", pwdLimiter, m.Handler.ResetPassword)
		auth.PATCH("/:id/dni", m.Handler.ChangeDni)
	}
}
