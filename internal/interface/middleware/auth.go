package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a3lachi/servauth/internal/application"
	"github.com/a3lachi/servauth/internal/domain/entity"
	"github.com/a3lachi/servauth/pkg/helpers"
	"github.com/a3lachi/servauth/pkg/response"
)

const (
	CtxUserKey    = "authUser"
	CtxSessionKey = "authSession"
)

// SessionAuth resolves the session cookie through the auth delegate and
// attaches the user and session to the request context. Anything short of
// a valid, unexpired session is a generic 401; store failures are logged
// and surface as 500, not as a denial.
func SessionAuth(delegate application.Delegate, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		u, sess, err := delegate.GetSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrNoSession) {
				response.AbortError(c, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}
			if logger != nil {
				logger.WithError(err).WithField("path", c.FullPath()).Error("session lookup failed")
			}
			response.AbortError(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxSessionKey, sess)
		c.Set("userID", u.ID)
		c.Next()
	}
}

// UserFrom returns the authenticated user placed by SessionAuth.
func UserFrom(c *gin.Context) *entity.User {
	u, _ := c.Get(CtxUserKey)
	user, _ := u.(*entity.User)
	return user
}

// SessionFrom returns the resolved session placed by SessionAuth.
func SessionFrom(c *gin.Context) *entity.Session {
	s, _ := c.Get(CtxSessionKey)
	sess, _ := s.(*entity.Session)
	return sess
}
