// internal/auth/routes.go

package auth

import (
	"github.com/gorilla/mux"

	"github.com/stvnptra/picshare/internal/common/middleware"
)

// RegisterRoutes attaches auth endpoints to the router. Credential
// endpoints are rate limited per client IP.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *Middleware, limiter *middleware.RateLimiter) {
	public := router.PathPrefix("/api/v1/auth").Subrouter()
	public.HandleFunc("/register", limiter.Limit("register", handler.Register)).Methods("POST")
	public.HandleFunc("/login", limiter.Limit("login", handler.Login)).Methods("POST")
	public.HandleFunc("/reset-password", limiter.Limit("reset", handler.ResetPassword)).Methods("POST")

	protected := router.PathPrefix("/api/v1/auth").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/logout", handler.Logout).Methods("POST")
	protected.HandleFunc("/change-password", handler.ChangePassword).Methods("POST")
	protected.HandleFunc("/me", handler.Me).Methods("GET")
	protected.HandleFunc("/ws-ticket", handler.WSTicket).Methods("POST")
}
