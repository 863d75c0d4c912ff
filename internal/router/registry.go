package router

import "github.com/gin-gonic/gin"

// Registry groups every feature module under the /auth prefix.
type Registry struct {
	Engine      *gin.Engine
	Auth        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	auth := engine.Group("/auth")
	return &Registry{Engine: engine, Auth: auth}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.Auth.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.Auth)
	}
}
