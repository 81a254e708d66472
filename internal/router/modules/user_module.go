package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/arkandhani/roomtalk/internal/container"
	handlers "github.com/arkandhani/roomtalk/internal/interface/http"
	"github.com/arkandhani/roomtalk/internal/interface/middleware"
	"github.com/arkandhani/roomtalk/pkg/helpers"
)

// UserModule wires profile routes.
// Public: GET /api/users/:id
// Protected: GET /api/profile, PUT /api/profile (self only)

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/users/:id", m.Handler.View)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.GET("/profile", m.Handler.GetSelf)
		auth.PUT("/profile", m.Handler.UpdateSelf)
	}
}
