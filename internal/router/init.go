package router

import (
	"github.com/a3lachi/servauth/internal/application"
	"github.com/a3lachi/servauth/internal/container"
	pginfra "github.com/a3lachi/servauth/internal/infrastructure/postgres"
	"github.com/a3lachi/servauth/internal/infrastructure/redisstore"
	handlers "github.com/a3lachi/servauth/internal/interface/http"
	"github.com/a3lachi/servauth/internal/router/modules"
)

// InitModules builds the auth delegate from the container singletons and
// registers all feature modules. Called once during startup; the resulting
// service instance is shared by every handler.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	sessions := redisstore.NewSessionStore(container.GetRedis())
	tokens := redisstore.NewTokenStore(container.GetRedis())

	svc := application.NewService(repo, sessions, tokens, container.GetJWT(), container.GetLogger(), cfg)
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket
	svc.ES = container.GetES()
	svc.ESUsersIndex = cfg.ESUsersIndex

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(svc, svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(authHandler, svc))
	r.Add(modules.NewUserModule(userHandler, svc))
}
