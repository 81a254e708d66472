package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/arkandhani/roomtalk/internal/interface/http"
)

// FeedModule wires the public read-only views.
// GET /api/topics, GET /api/activity

type FeedModule struct {
	Handler *handlers.FeedHandler
}

func NewFeedModule(h *handlers.FeedHandler) *FeedModule {
	return &FeedModule{Handler: h}
}

func (m *FeedModule) Register(rg *gin.RouterGroup) {
	rg.GET("/topics", m.Handler.Topics)
	rg.GET("/activity", m.Handler.Activity)
}
