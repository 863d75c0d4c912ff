package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a3lachi/servauth/internal/application"
	"github.com/a3lachi/servauth/internal/interface/middleware"
	"github.com/a3lachi/servauth/pkg/helpers"
	"github.com/a3lachi/servauth/pkg/response"
	"github.com/a3lachi/servauth/pkg/validation"
)

type AuthHandler struct {
	Delegate application.Delegate
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewAuthHandler(delegate application.Delegate, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Delegate: delegate, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

func internalError(c *gin.Context, logger *logrus.Logger, err error) {
	if logger != nil {
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
}

func malformedBody(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, "Invalid request body", []string{"body: malformed JSON"})
}

func sessionMeta(c *gin.Context) application.SessionMeta {
	ip := c.GetString("real_ip")
	if ip == "" {
		ip = c.ClientIP()
	}
	return application.SessionMeta{IPAddress: ip, UserAgent: c.GetHeader("User-Agent")}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=100,personname"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	details := validation.Check(&req)
	if req.Password != "" {
		details = append(details, validation.PasswordDetails("password", req.Password)...)
	}
	if len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	u, err := h.Delegate.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "Email already registered", nil)
			return
		}
		internalError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": MapUser(u)})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	if details := validation.Check(&req); len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	u, sess, err := h.Delegate.SignIn(c.Request.Context(), req.Email, req.Password, sessionMeta(c))
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			// never reveal whether the email exists or the password was wrong
			response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		internalError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": MapUser(u), "session": MapSession(sess)})
}

// Logout POST /auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if err := h.Delegate.SignOut(c.Request.Context(), sess.ID); err != nil {
		internalError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "Logged out successfully")
}

// Refresh POST /auth/refresh (auth required) slides the session expiry and
// re-issues the cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(helpers.SessionCookieName)
	if err != nil || token == "" {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	u, sess, err := h.Delegate.RefreshSession(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, application.ErrNoSession) {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		internalError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{"user": MapUser(u), "session": MapSession(sess)})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword POST /auth/forgot-password always answers with the same
// generic message so callers cannot probe which emails are registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	if details := validation.Check(&req); len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	link, err := h.Delegate.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		internalError(c, h.Logger, err)
		return
	}
	if link != "" && h.Logger != nil {
		// delivery is out of scope; operators pick the link up from the log
		h.Logger.WithField("reset_link", link).Debug("password reset link issued")
	}
	response.Message(c, http.StatusOK, "If the email is registered, a reset link has been sent")
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPassword POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	details := validation.Check(&req)
	if req.Password != "" {
		details = append(details, validation.PasswordDetails("password", req.Password)...)
	}
	if len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	if err := h.Delegate.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, "Invalid or expired token", nil)
			return
		}
		internalError(c, h.Logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Password updated successfully")
}

// VerifyInit POST /auth/verify-email/init (auth required)
// Returns a verification link that embeds the token in the front-end URL.
func (h *AuthHandler) VerifyInit(c *gin.Context) {
	u := middleware.UserFrom(c)
	link, already, err := h.Delegate.VerifyInit(c.Request.Context(), u.ID)
	if err != nil {
		internalError(c, h.Logger, err)
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified", "alreadyVerified": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification link issued", "verifyLink": link})
}

type verifyConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyConfirm POST /auth/verify-email/confirm
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	if details := validation.Check(&req); len(details) > 0 {
		response.Error(c, http.StatusBadRequest, "Validation failed", details)
		return
	}
	if err := h.Delegate.VerifyConfirm(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, "Invalid or expired token", nil)
			return
		}
		internalError(c, h.Logger, err)
		return
	}
	response.Message(c, http.StatusOK, "Email verified")
}
