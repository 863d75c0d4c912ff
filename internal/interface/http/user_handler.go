package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a3lachi/servauth/internal/application"
	"github.com/a3lachi/servauth/internal/domain/entity"
	repo "github.com/a3lachi/servauth/internal/domain/repository"
	"github.com/a3lachi/servauth/internal/interface/middleware"
	"github.com/a3lachi/servauth/pkg/helpers"
	"github.com/a3lachi/servauth/pkg/response"
	"github.com/a3lachi/servauth/pkg/validation"
)

// ProfileService is the slice of the application service the profile
// endpoints need.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, in repo.ProfileUpdate) (*entity.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error)
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type UserHandler struct {
	Svc      ProfileService
	Delegate application.Delegate
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewUserHandler(svc ProfileService, delegate application.Delegate, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Delegate: delegate, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Me GET /auth/me
func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.UserFrom(c)
	c.JSON(http.StatusOK, gin.H{"user": MapUser(u)})
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100,personname"`
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Image *string `json:"image" validate:"omitempty,url"`
}

// UpdateMe PUT /auth/me applies only the provided fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	u := middleware.UserFrom(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	if req.Name == nil && req.Email == nil && req.Image == nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{"body: at least one field must be provided"})
		return
	}
	if details := validation.Check(&req); len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	updated, err := h.Svc.UpdateProfile(c.Request.Context(), u.ID, repo.ProfileUpdate{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, "Email already registered", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		default:
			internalError(c, h.Logger, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": MapUser(updated)})
}

// DeleteMe DELETE /auth/me removes the account, revokes the session and
// clears the cookie.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	u := middleware.UserFrom(c)
	sess := middleware.SessionFrom(c)

	if err := h.Svc.DeleteAccount(c.Request.Context(), u.ID); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		internalError(c, h.Logger, err)
		return
	}
	if err := h.Delegate.SignOut(c.Request.Context(), sess.ID); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("session_id", sess.ID).Warn("session revoke after delete failed")
	}
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "Account deleted")
}

// UploadAvatar POST /auth/me/avatar accepts a multipart "avatar" file and
// stores it in GCS.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	u := middleware.UserFrom(c)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{"avatar: file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		internalError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	updated, err := h.Svc.UploadAvatar(c.Request.Context(), u.ID, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		internalError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": MapUser(updated)})
}

// Search GET /auth/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{"q: is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		internalError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits})
}
