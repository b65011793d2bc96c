package authz

import (
	"log/slog"
	"net/http"

	"github.com/mentora-app/mentora/internal/platform/httpx"
)

// Middleware wires authorization checks for API handlers. Unlike the route
// Guard it answers with problem responses instead of redirects.
type Middleware struct {
	Resolve PrincipalResolver
	Logger  *slog.Logger
}

// NewMiddleware builds a Middleware resolving principals from the session.
func NewMiddleware(logger *slog.Logger) Middleware {
	return Middleware{Resolve: SessionPrincipal, Logger: logger}
}

// RequireAuth ensures the request carries an authenticated principal.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.principal(r).Authenticated() {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAny ensures the principal holds at least one of the permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := m.principal(r)
			if !principal.Authenticated() {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
				return
			}
			for _, p := range perms {
				if HasPermission(principal.Role, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("permission denied",
					slog.String("path", r.URL.Path),
					slog.String("role", string(principal.Role)))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
		})
	}
}

func (m Middleware) principal(r *http.Request) Principal {
	if m.Resolve == nil {
		return Principal{}
	}
	return m.Resolve(r)
}
