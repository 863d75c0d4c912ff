package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/a3lachi/servauth/internal/application"
	handlers "github.com/a3lachi/servauth/internal/interface/http"
	"github.com/a3lachi/servauth/internal/interface/middleware"
)

// AuthModule wires the credential and session endpoints.
// Public: register, login, forgot-password, reset-password, verify-email/confirm
// Protected: logout, refresh, verify-email/init
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Delegate application.Delegate
}

func NewAuthModule(h *handlers.AuthHandler, delegate application.Delegate) *AuthModule {
	return &AuthModule{Handler: h, Delegate: delegate}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.POST("/forgot-password", m.Handler.ForgotPassword)
	rg.POST("/reset-password", m.Handler.ResetPassword)
	rg.POST("/verify-email/confirm", m.Handler.VerifyConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.SessionAuth(m.Delegate, m.Handler.Logger))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/refresh", m.Handler.Refresh)
		auth.POST("/verify-email/init", m.Handler.VerifyInit)
	}
}
