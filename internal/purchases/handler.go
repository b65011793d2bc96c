package purchases

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

// Handler exposes the purchase API plus the provider webhook.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	validator     *validator.Validate
	authz         authz.Middleware
	webhookSecret string
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware, webhookSecret string) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		validator:     validator.New(),
		authz:         mw,
		webhookSecret: webhookSecret,
	}
}

// MountRoutes registers purchase routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.PermPurchaseContent))
		r.Post("/content/{id}", h.start)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuth)
		r.Get("/", h.library)
	})
}

// MountWebhook registers the provider callback outside the session stack.
func (h *Handler) MountWebhook(r chi.Router) {
	r.Post("/payments/webhook", h.webhook)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	contentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || contentID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid content id")
		return
	}

	result, err := h.service.Start(r.Context(), userID, contentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrContentUnavailable):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "content unavailable")
		case errors.Is(err, ErrAlreadyOwned):
			httpx.Problem(w, http.StatusConflict, "Conflict", "content already owned")
		default:
			h.logger.Error("start purchase", slog.Int64("content", contentID), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": result})
}

func (h *Handler) library(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	items, err := h.service.Library(r.Context(), userID)
	if err != nil {
		h.logger.Error("list library", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []LibraryItem{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": items})
}

type webhookRequest struct {
	TransactionID string `json:"transactionId" validate:"required,uuid4"`
	Status        string `json:"status" validate:"required,oneof=settled failed"`
	ProviderRef   string `json:"providerRef"`
}

// webhook is called by the payment provider. Authentication is a shared
// secret header; retries are expected and settlement is idempotent.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" || r.Header.Get("X-Webhook-Secret") != h.webhookSecret {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req webhookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var err error
	switch req.Status {
	case "settled":
		err = h.service.Settle(r.Context(), req.TransactionID, req.ProviderRef)
	case "failed":
		err = h.service.Fail(r.Context(), req.TransactionID, req.ProviderRef)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown transaction")
			return
		}
		h.logger.Error("webhook", slog.String("transaction", req.TransactionID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
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
