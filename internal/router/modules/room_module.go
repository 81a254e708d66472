package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arkandhani/roomtalk/internal/container"
	handlers "github.com/arkandhani/roomtalk/internal/interface/http"
	"github.com/arkandhani/roomtalk/internal/interface/middleware"
	"github.com/arkandhani/roomtalk/pkg/helpers"
)

// RoomModule wires room and message routes.
// Public: GET /api/home, GET /api/rooms/:id, GET /api/search/rooms
// Protected: room create/update/delete, message post/delete. Deletion is
// two-phase: GET the confirmation payload, then DELETE.

type RoomModule struct {
	Handler *handlers.RoomHandler
	JWT     *helpers.JWTManager
}

func NewRoomModule(h *handlers.RoomHandler, jwt *helpers.JWTManager) *RoomModule {
	return &RoomModule{Handler: h, JWT: jwt}
}

func (m *RoomModule) Register(rg *gin.RouterGroup) {
	rg.GET("/home", m.Handler.Home)
	rg.GET("/rooms/:id", m.Handler.Get)
	rg.GET("/search/rooms", m.Handler.SearchIndexed)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("/rooms", m.Handler.Create)
		auth.PUT("/rooms/:id", m.Handler.Update)
		auth.GET("/rooms/:id/delete", m.Handler.ConfirmDelete)
		auth.DELETE("/rooms/:id", m.Handler.Delete)

		auth.POST("/rooms/:id/messages", m.Handler.PostMessage)
		auth.GET("/messages/:id/delete", m.Handler.ConfirmDeleteMessage)
		auth.DELETE("/messages/:id", m.Handler.DeleteMessage)
	}
}
