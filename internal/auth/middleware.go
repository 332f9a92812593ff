// internal/auth/middleware.go

package auth

import (
	"net/http"
	"strings"

	"github.com/stvnptra/picshare/internal/common/utils"
	"github.com/stvnptra/picshare/internal/session"
)

// Middleware authenticates requests with a bearer ID token
type Middleware struct {
	service Service
}

// NewMiddleware creates new auth middleware
func NewMiddleware(service Service) *Middleware {
	return &Middleware{service: service}
}

// Authenticate rejects requests without a valid bearer token and places
// the resolved session on the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "Missing authorization token", http.StatusUnauthorized)
			return
		}

		sess, err := m.service.VerifyToken(r.Context(), token)
		if err != nil {
			utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// OptionalAuthenticate resolves a session when a valid token is present
// but lets anonymous requests through
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractToken(r); token != "" {
			if sess, err := m.service.VerifyToken(r.Context(), token); err == nil {
				r = r.WithContext(session.WithSession(r.Context(), sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
