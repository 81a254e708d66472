package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkandhani/roomtalk/internal/application"
	"github.com/arkandhani/roomtalk/internal/domain/entity"
	"github.com/arkandhani/roomtalk/pkg/response"
)

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// participantJSON omits the email; participant lists are public.
func participantJSON(u *entity.User) gin.H {
	return gin.H{"id": u.ID, "username": u.Username}
}

func profileJSON(p *entity.Profile) gin.H {
	if p == nil {
		return nil
	}
	return gin.H{
		"id":         p.ID,
		"user_id":    p.UserID,
		"avatar_url": p.AvatarURL,
		"updated_at": p.UpdatedAt,
	}
}

func topicJSON(t *entity.Topic) gin.H {
	return gin.H{"id": t.ID, "name": t.Name, "created_at": t.CreatedAt}
}

func roomJSON(r *entity.Room) gin.H {
	return gin.H{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
		"topic":       r.TopicName,
		"host_id":     r.HostID,
		"host":        r.HostUsername,
		"created_at":  r.CreatedAt,
		"updated_at":  r.UpdatedAt,
	}
}

func messageJSON(m *entity.Message) gin.H {
	return gin.H{
		"id":         m.ID,
		"room_id":    m.RoomID,
		"room":       m.RoomName,
		"user_id":    m.UserID,
		"username":   m.Username,
		"body":       m.Body,
		"created_at": m.CreatedAt,
	}
}

func roomsJSON(rooms []entity.Room) []gin.H {
	out := make([]gin.H, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomJSON(&rooms[i]))
	}
	return out
}

func messagesJSON(msgs []entity.Message) []gin.H {
	out := make([]gin.H, 0, len(msgs))
	for i := range msgs {
		out = append(out, messageJSON(&msgs[i]))
	}
	return out
}

func topicsJSON(topics []entity.Topic) []gin.H {
	out := make([]gin.H, 0, len(topics))
	for i := range topics {
		out = append(out, topicJSON(&topics[i]))
	}
	return out
}

func participantsJSON(users []entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, participantJSON(&users[i]))
	}
	return out
}

// failWith maps application errors onto the response envelope. Anything not
// in the taxonomy is a 500 with a generic message.
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Fail(c, http.StatusForbidden, "you are not allowed here", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "invalid username or password", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Fail(c, http.StatusBadRequest, "validation failed", map[string]string{"email": "already in use"})
	case errors.Is(err, application.ErrUsernameTaken):
		response.Fail(c, http.StatusBadRequest, "validation failed", map[string]string{"username": "already in use"})
	case errors.Is(err, application.ErrProfileMissing):
		response.Fail(c, http.StatusBadRequest, "invalid user profile", nil)
	default:
		response.Fail(c, http.StatusInternalServerError, "internal error", nil)
	}
}
