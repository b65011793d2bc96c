package progress

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentora-app/mentora/internal/authz"
	"github.com/mentora-app/mentora/internal/platform/httpx"
)

// Handler exposes the playback progress API.
type Handler struct {
	logger    *slog.Logger
	repo      Store
	validator *validator.Validate
	authz     authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Store, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, validator: validator.New(), authz: mw}
}

// MountRoutes registers progress routes; all require an authenticated user.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuth)
		r.Get("/", h.list)
		r.Put("/{contentID}", h.save)
	})
}

type saveProgressRequest struct {
	PositionSeconds int     `json:"positionSeconds" validate:"gte=0"`
	Percent         float64 `json:"percent" validate:"gte=0,lte=100"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	contentID, err := strconv.ParseInt(chi.URLParam(r, "contentID"), 10, 64)
	if err != nil || contentID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid content id")
		return
	}

	var req saveProgressRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	completed := req.Percent >= completionThreshold
	if err := h.repo.Upsert(r.Context(), userID, contentID, req.PositionSeconds, req.Percent, completed); err != nil {
		h.logger.Error("save progress", slog.Int64("content", contentID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "completed": completed})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}
	records, err := h.repo.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list progress", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": records})
}

func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	principal := authz.SessionPrincipal(r)
	if !principal.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
		return 0, false
	}
	id, err := strconv.ParseInt(principal.ID, 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid principal")
		return 0, false
	}
	return id, true
}
