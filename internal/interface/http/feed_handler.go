package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arkandhani/roomtalk/internal/application"
	"github.com/arkandhani/roomtalk/pkg/response"
)

type FeedHandler struct {
	Svc    *application.FeedService
	Logger *logrus.Logger
}

func NewFeedHandler(svc *application.FeedService, logger *logrus.Logger) *FeedHandler {
	return &FeedHandler{Svc: svc, Logger: logger}
}

// Topics filters topic names by optional substring query.
func (h *FeedHandler) Topics(c *gin.Context) {
	topics, err := h.Svc.ListTopics(c.Request.Context(), c.Query("q"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, topicsJSON(topics), "topics", gin.H{"count": len(topics)})
}

// Activity is the global feed: all messages, newest first.
func (h *FeedHandler) Activity(c *gin.Context) {
	msgs, err := h.Svc.Activity(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, messagesJSON(msgs), "recent activity", gin.H{"count": len(msgs)})
}
