package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentora-app/mentora/internal/authz"
	"github.com/mentora-app/mentora/internal/platform/httpx"
)

// AdminHandler exposes the content-management surface.
type AdminHandler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	authz     authz.Middleware
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *AdminHandler {
	return &AdminHandler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		authz:     mw,
	}
}

// MountRoutes registers admin content routes behind the manage_content check.
func (h *AdminHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.PermManageContent))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Post("/{id}/publish", h.publish)
		r.Post("/{id}/archive", h.archive)
	})
}

type createContentRequest struct {
	Slug        string `json:"slug" validate:"required,max=120"`
	Title       string `json:"title" validate:"required,max=200"`
	Excerpt     string `json:"excerpt" validate:"max=500"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,oneof=VIDEO PDF TEXT"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	IsFree      bool   `json:"isFree"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	MediaURL    string `json:"mediaUrl" validate:"omitempty,url"`
	Body        string `json:"body"`
}

type updateContentRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Excerpt     *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=VIDEO PDF TEXT"`
	Difficulty  *string `json:"difficulty,omitempty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	IsFree      *bool   `json:"isFree,omitempty"`
	PriceCents  *int64  `json:"priceCents,omitempty" validate:"omitempty,gte=0"`
	MediaURL    *string `json:"mediaUrl,omitempty" validate:"omitempty,url"`
	Body        *string `json:"body,omitempty"`
}

func (h *AdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id, err := h.service.Create(r.Context(), Content{
		Slug:        req.Slug,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Description: req.Description,
		Type:        ContentType(req.Type),
		Difficulty:  Difficulty(req.Difficulty),
		IsFree:      req.IsFree,
		PriceCents:  req.PriceCents,
		MediaURL:    req.MediaURL,
		Body:        req.Body,
	})
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "slug already in use")
			return
		}
		h.logger.Error("create content", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]int64{"id": id}})
}

func (h *AdminHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateContentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updates := ContentUpdate{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Description: req.Description,
		IsFree:      req.IsFree,
		PriceCents:  req.PriceCents,
		MediaURL:    req.MediaURL,
		Body:        req.Body,
	}
	if req.Type != nil {
		t := ContentType(*req.Type)
		updates.Type = &t
	}
	if req.Difficulty != nil {
		d := Difficulty(*req.Difficulty)
		updates.Difficulty = &d
	}

	if err := h.service.Update(r.Context(), id, updates); err != nil {
		h.respondMutationError(w, "update content", id, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) publish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Publish(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotPublishable) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Not Publishable", "content is missing required fields")
			return
		}
		h.respondMutationError(w, "publish content", id, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) archive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Archive(r.Context(), id); err != nil {
		h.respondMutationError(w, "archive content", id, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHandler) respondMutationError(w http.ResponseWriter, op string, id int64, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "content not found")
		return
	}
	h.logger.Error(op, slog.Int64("id", id), slog.Any("error", err))
	httpx.RespondError(w, err)
}

func (h *AdminHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid content id")
		return 0, false
	}
	return id, true
}
