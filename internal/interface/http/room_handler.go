package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arkandhani/roomtalk/internal/application"
	"github.com/arkandhani/roomtalk/pkg/response"
	"github.com/arkandhani/roomtalk/pkg/validation"
)

type RoomHandler struct {
	Svc    *application.RoomService
	Logger *logrus.Logger
}

func NewRoomHandler(svc *application.RoomService, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{Svc: svc, Logger: logger}
}

type roomRequest struct {
	Name        string `json:"name" binding:"required"`
	Topic       string `json:"topic" binding:"required"`
	Description string `json:"description"`
}

type postMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// normalize trims the fields and reports the ones that are empty after
// trimming; `binding:"required"` alone lets whitespace-only values through.
func (r *roomRequest) normalize() map[string]string {
	r.Name = strings.TrimSpace(r.Name)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Description = strings.TrimSpace(r.Description)

	details := map[string]string{}
	if r.Name == "" {
		details["name"] = "is required"
	}
	if r.Topic == "" {
		details["topic"] = "is required"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// Home answers the home/search operation. q is optional; absent means the
// unfiltered listing.
func (h *RoomHandler) Home(c *gin.Context) {
	view, err := h.Svc.Home(c.Request.Context(), c.Query("q"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"rooms":      roomsJSON(view.Rooms),
		"topics":     topicsJSON(view.Topics),
		"room_count": view.RoomCount,
		"messages":   messagesJSON(view.Messages),
	}, "home", nil)
}

func (h *RoomHandler) Get(c *gin.Context) {
	view, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, roomViewJSON(view), "room", nil)
}

func roomViewJSON(view *application.RoomView) gin.H {
	return gin.H{
		"room":         roomJSON(view.Room),
		"messages":     messagesJSON(view.Messages),
		"participants": participantsJSON(view.Participants),
	}
}

// PostMessage creates a message in the room and returns the refreshed room
// view, so the new message is visible in the same response.
func (h *RoomHandler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	view, err := h.Svc.PostMessage(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Body)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusCreated, roomViewJSON(view), "message posted", nil)
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if details := req.normalize(); details != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", details)
		return
	}
	room, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), application.RoomInput{
		Name:        req.Name,
		Topic:       req.Topic,
		Description: req.Description,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusCreated, roomJSON(room), "room created", nil)
}

func (h *RoomHandler) Update(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if details := req.normalize(); details != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", details)
		return
	}
	room, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), application.RoomInput{
		Name:        req.Name,
		Topic:       req.Topic,
		Description: req.Description,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, roomJSON(room), "room updated", nil)
}

// ConfirmDelete is the first phase of the two-phase delete: it returns the
// room to be removed so the client can show a confirmation step.
func (h *RoomHandler) ConfirmDelete(c *gin.Context) {
	room, err := h.Svc.ConfirmDeleteRoom(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, roomJSON(room), "confirm room deletion", gin.H{"confirm": true})
}

func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteRoom(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "room deleted", nil)
}

// ConfirmDeleteMessage mirrors the room confirmation step for messages.
func (h *RoomHandler) ConfirmDeleteMessage(c *gin.Context) {
	msg, err := h.Svc.ConfirmDeleteMessage(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, messageJSON(msg), "confirm message deletion", gin.H{"confirm": true})
}

func (h *RoomHandler) DeleteMessage(c *gin.Context) {
	if err := h.Svc.DeleteMessage(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "message deleted", nil)
}

// SearchIndexed serves the Elasticsearch-backed room search. It degrades to
// an empty result set when no index is configured.
func (h *RoomHandler) SearchIndexed(c *gin.Context) {
	hits, err := h.Svc.SearchIndexed(c.Request.Context(), c.Query("q"), 10)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "rooms", gin.H{"count": len(hits)})
}
