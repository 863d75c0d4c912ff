package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/a3lachi/servauth/internal/application"
	handlers "github.com/a3lachi/servauth/internal/interface/http"
	"github.com/a3lachi/servauth/internal/interface/middleware"
)

// UserModule wires the profile endpoints. Everything here sits behind the
// session gate.
type UserModule struct {
	Handler  *handlers.UserHandler
	Delegate application.Delegate
}

func NewUserModule(h *handlers.UserHandler, delegate application.Delegate) *UserModule {
	return &UserModule{Handler: h, Delegate: delegate}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.SessionAuth(m.Delegate, m.Handler.Logger))
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me", m.Handler.UpdateMe)
		auth.DELETE("/me", m.Handler.DeleteMe)
		auth.POST("/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}
