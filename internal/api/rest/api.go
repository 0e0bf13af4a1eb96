package rest

import (
	"net/http"

	"github.com/CameronXie/credential-registry/internal/api/rest/middlewares"
)

type RouterConfig struct {
	SignUpHandler           http.Handler
	SignInHandler           http.Handler
	UserCountHandler        http.Handler
	ClearUsersHandler       http.Handler
	AuthorisationMiddleware middlewares.Middleware
}

// NewMuxWithHandlers initializes a new HTTP mux with routes defined by the given RouterConfig.
func NewMuxWithHandlers(cfg *RouterConfig) *http.ServeMux {
	router := http.NewServeMux()

	router.Handle("POST /auth/signup", cfg.SignUpHandler)
	router.Handle("POST /auth/signin", cfg.SignInHandler)
	router.Handle("GET /api/users/count", cfg.AuthorisationMiddleware.Handle(cfg.UserCountHandler))
	router.Handle("DELETE /api/users", cfg.AuthorisationMiddleware.Handle(cfg.ClearUsersHandler))

	return router
}
