package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arkandhani/roomtalk/internal/application"
	"github.com/arkandhani/roomtalk/pkg/response"
	"github.com/arkandhani/roomtalk/pkg/validation"
)

type UserHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.ProfileService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// View serves the public profile page of any user.
func (h *UserHandler) View(c *gin.Context) {
	view, err := h.Svc.ViewUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":     userJSON(view.User),
		"profile":  profileJSON(view.Profile),
		"rooms":    roomsJSON(view.Rooms),
		"messages": messagesJSON(view.Messages),
		"topics":   topicsJSON(view.Topics),
	}, "user profile", nil)
}

// GetSelf prefills the self-update form from the stored entities.
func (h *UserHandler) GetSelf(c *gin.Context) {
	u, profile, err := h.Svc.GetSelf(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":    userJSON(u),
		"profile": profileJSON(profile),
	}, "profile", nil)
}

type updateSelfForm struct {
	Username string `form:"username" binding:"required,username"`
	Email    string `form:"email" binding:"required,email"`
}

// UpdateSelf handles the multipart self-update: account fields plus an
// optional replacement avatar image. It always operates on the acting user;
// there is no id parameter.
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	var form updateSelfForm
	if err := c.ShouldBind(&form); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateSelfInput{Username: form.Username, Email: form.Email}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "unreadable image upload", nil)
			return
		}
		defer func() { _ = f.Close() }()
		in.Image = f
		in.ImageFilename = fh.Filename
		in.ImageContentType = fh.Header.Get("Content-Type")
	}

	u, profile, err := h.Svc.UpdateSelf(c.Request.Context(), c.GetString("userID"), in)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":    userJSON(u),
		"profile": profileJSON(profile),
	}, "profile updated", nil)
}
