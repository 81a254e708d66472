package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arkandhani/roomtalk/internal/container"
	handlers "github.com/arkandhani/roomtalk/internal/interface/http"
	"github.com/arkandhani/roomtalk/internal/interface/middleware"
)

// AuthModule wires the authentication flow. All four routes are public:
// logout must succeed for a client whose token already expired, so it is not
// gated behind the auth middleware and resolves the session best-effort from
// the cookie instead.

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/logout", m.Handler.Logout)
}
