package authz

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mentora-app/mentora/internal/shared"
)

// Principal is the validated identity attached to a request. A zero value
// means unauthenticated.
type Principal struct {
	ID   string
	Role Role
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// PrincipalResolver extracts the principal from a request. Resolvers must not
// fail: anything short of a valid identity resolves to the zero Principal.
type PrincipalResolver func(*http.Request) Principal

// SessionPrincipal resolves the principal from the session stored in the
// request context by the session middleware.
func SessionPrincipal(r *http.Request) Principal {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return Principal{}
	}
	return Principal{ID: sess.User(), Role: Role(sess.Role())}
}

// ProtectedPrefix declares a path prefix requiring authentication. Prefixes
// form an allow-list: any path not matching one is public.
type ProtectedPrefix struct {
	Prefix    string
	AdminOnly bool
}

// DefaultProtectedPrefixes is the policy shipped with the application.
var DefaultProtectedPrefixes = []ProtectedPrefix{
	{Prefix: "/dashboard"},
	{Prefix: "/admin", AdminOnly: true},
}

// Guard is the route-level access gate. It runs before protected routes and
// redirects instead of erroring: a missing or corrupt session is simply an
// unauthenticated request.
type Guard struct {
	Prefixes         []ProtectedPrefix
	SignInPath       string
	UnauthorizedPath string
	Resolve          PrincipalResolver
	Logger           *slog.Logger
}

// NewGuard builds a Guard with the default policy and redirect targets.
func NewGuard(logger *slog.Logger) Guard {
	return Guard{
		Prefixes:         DefaultProtectedPrefixes,
		SignInPath:       "/auth/login",
		UnauthorizedPath: "/unauthorized",
		Resolve:          SessionPrincipal,
		Logger:           logger,
	}
}

// Middleware enforces the guard policy on every matching request.
func (g Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matched, ok := g.match(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		principal := Principal{}
		if g.Resolve != nil {
			principal = g.Resolve(r)
		}

		if !principal.Authenticated() {
			g.redirectToSignIn(w, r)
			return
		}

		if matched.AdminOnly && principal.Role != RoleAdmin {
			if g.Logger != nil {
				g.Logger.Warn("admin route denied",
					slog.String("path", r.URL.Path),
					slog.String("role", string(principal.Role)))
			}
			http.Redirect(w, r, g.UnauthorizedPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// match returns the first protected prefix covering the path.
func (g Guard) match(path string) (ProtectedPrefix, bool) {
	for _, p := range g.Prefixes {
		if path == p.Prefix || strings.HasPrefix(path, p.Prefix+"/") {
			return p, true
		}
	}
	return ProtectedPrefix{}, false
}

// redirectToSignIn preserves the original URL as the post-login target.
func (g Guard) redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	target := g.SignInPath + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusSeeOther)
}
