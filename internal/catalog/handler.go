package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mentora-app/mentora/internal/authz"
	"github.com/mentora-app/mentora/internal/platform/httpx"
)

// AccessChecker answers whether a user may open paid content. Implemented by
// the purchases service.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID, contentID int64) (bool, error)
}

// Handler serves the public catalog API.
type Handler struct {
	logger  *slog.Logger
	service *Service
	access  AccessChecker
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, access AccessChecker) *Handler {
	return &Handler{logger: logger, service: service, access: access}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/categories", h.categories)
	r.Get("/{slug}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		Type:       q.Get("type"),
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sortBy"),
		Difficulty: q.Get("difficulty"),
		Price:      q.Get("price"),
		Page:       atoiDefault(q.Get("page"), 0),
		Limit:      atoiDefault(q.Get("limit"), 0),
	}
	httpx.JSON(w, http.StatusOK, h.service.List(r.Context(), filter))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": categories})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	content, err := h.service.GetPublished(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "content not found")
			return
		}
		h.logger.Error("get content", slog.String("slug", slug), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if h.unlockable(r, content) {
		if unlocked, err := h.service.GetUnlocked(r.Context(), slug); err == nil {
			content = unlocked
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": content})
}

// unlockable checks whether the caller has purchased the paid record. Free
// content ships unlocked already.
func (h *Handler) unlockable(r *http.Request, content *Content) bool {
	if content.IsFree || h.access == nil {
		return false
	}
	principal := authz.SessionPrincipal(r)
	if !principal.Authenticated() {
		return false
	}
	userID, err := strconv.ParseInt(principal.ID, 10, 64)
	if err != nil {
		return false
	}
	ok, err := h.access.HasAccess(r.Context(), userID, content.ID)
	if err != nil {
		h.logger.Warn("access check failed", slog.Int64("content", content.ID), slog.Any("error", err))
		return false
	}
	return ok
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
