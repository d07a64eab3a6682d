// ShopifyQ | 2026
// handler.go

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/shopifyq/backend/internal/core"
	"github.com/shopifyq/backend/internal/middleware"
)

const maxWebhookBody = 64 * 1024

// EmailLookup resolves the email for an authenticated user id.
type EmailLookup func(ctx context.Context, userID string) (string, error)

type Handler struct {
	service       *Service
	webhookSecret string
	emailOf       EmailLookup
	logger        *slog.Logger
	validator     *validator.Validate

	verify func(payload []byte, header string) (stripe.Event, error)
}

func NewHandler(
	service *Service,
	webhookSecret string,
	emailOf EmailLookup,
	logger *slog.Logger,
) *Handler {
	h := &Handler{
		service:       service,
		webhookSecret: webhookSecret,
		emailOf:       emailOf,
		logger:        logger,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
	}
	h.verify = func(payload []byte, header string) (stripe.Event, error) {
		return webhook.ConstructEventWithOptions(
			payload,
			header,
			h.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
		)
	}
	return h
}

// RegisterWebhookRoute mounts the webhook receiver outside the
// authenticated API surface; the signature check is its only guard.
func (h *Handler) RegisterWebhookRoute(r chi.Router) {
	r.Post("/webhooks/stripe", h.Webhook)
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/billing", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/checkout", h.CreateCheckout)
	})
}

// Webhook consumes provider event deliveries. The raw body is kept
// byte-for-byte for signature verification; a bad signature returns
// 400 before any state is touched. Database write failures return 500
// so the sender redelivers; everything else acknowledges with 200.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("webhook body read failed", "error", err)
		writeWebhookError(w, http.StatusBadRequest, "invalid body")
		return
	}

	event, err := h.verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		writeWebhookError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	if err := h.service.HandleEvent(r.Context(), event); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			writeWebhookError(w, http.StatusBadRequest, "malformed event payload")
			return
		}
		h.logger.Error("webhook processing failed",
			"event_id", event.ID,
			"error", err,
		)
		writeWebhookError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort acknowledgment write
	_, _ = w.Write([]byte(`{"received":true}`))
}

type CheckoutRequest struct {
	PriceID string `json:"price_id" validate:"required,max=255"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	email, err := h.emailOf(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	link, err := h.service.CreateCheckout(r.Context(), req.PriceID, email)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "unknown price id")
			return
		}
		if errors.Is(err, core.ErrUpstream) {
			core.JSONError(w, core.UpstreamError("payment provider"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CheckoutResponse{URL: link.URL})
}

func writeWebhookError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
