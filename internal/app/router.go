package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mentora-app/mentora/internal/auth"
	"github.com/mentora-app/mentora/internal/authz"
	"github.com/mentora-app/mentora/internal/catalog"
	"github.com/mentora-app/mentora/internal/observability"
	"github.com/mentora-app/mentora/internal/platform/httpx"
	"github.com/mentora-app/mentora/internal/progress"
	"github.com/mentora-app/mentora/internal/purchases"
	"github.com/mentora-app/mentora/internal/shared"
	"github.com/mentora-app/mentora/internal/users"
	"github.com/mentora-app/mentora/jobs"
	"github.com/mentora-app/mentora/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	SessionManager      *shared.SessionManager
	CSRFManager         *shared.CSRFManager
	Guard               authz.Guard
	AuthHandler         *auth.Handler
	CatalogHandler      *catalog.Handler
	CatalogAdminHandler *catalog.AdminHandler
	UsersHandler        *users.Handler
	PurchasesHandler    *purchases.Handler
	ProgressHandler     *progress.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Mentora defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
		CSRFExempt:     []string{"/api/payments/webhook"},
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.Guard.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Token bootstrap for the SPA: fetched once, echoed back on writes.
	r.Get("/api/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("ensure csrf token", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"csrfToken": token})
	})

	r.Route("/api/auth", params.AuthHandler.MountRoutes)
	r.Route("/api/content", params.CatalogHandler.MountRoutes)
	r.Route("/api/purchases", params.PurchasesHandler.MountRoutes)
	r.Route("/api/progress", params.ProgressHandler.MountRoutes)
	if params.CatalogAdminHandler != nil {
		r.Route("/api/admin/content", params.CatalogAdminHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/api/admin/users", params.UsersHandler.MountRoutes)
	}
	r.Route("/api", params.PurchasesHandler.MountWebhook)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	mountSPA(r, params.Logger)

	return r
}

// mountSPA serves the embedded frontend shell: real files under /static,
// index.html for every other GET so client-side routing works. Guarded page
// prefixes (/dashboard, /admin) have already passed the route guard by the
// time they land here.
func mountSPA(r chi.Router, logger *slog.Logger) {
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Error("create static sub filesystem", slog.Any("error", err))
		return
	}

	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	r.Handle("/static/*", staticCacheHandler(fileServer))

	shell, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		logger.Error("read spa shell", slog.Any("error", err))
		return
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet || strings.HasPrefix(req.URL.Path, "/api/") {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(shell)
	})
}

// staticCacheHandler wraps a file server with Cache-Control headers. Static
// assets are cached for 1 hour in browsers and CDNs.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
