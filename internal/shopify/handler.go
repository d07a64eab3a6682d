// ShopifyQ | 2026
// handler.go

package shopify

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopifyq/backend/internal/core"
	"github.com/shopifyq/backend/internal/middleware"
)

const accessTokenCookie = "shopify_access_token"

type Handler struct {
	service     *Service
	frontendURL string
	validator   *validator.Validate
}

func NewHandler(service *Service, frontendURL string) *Handler {
	return &Handler{
		service:     service,
		frontendURL: frontendURL,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterCallbackRoute mounts the OAuth callback. Shopify redirects
// the merchant's browser here, so it carries no bearer token; the
// state parameter ties it back to the user who started the flow.
func (h *Handler) RegisterCallbackRoute(r chi.Router) {
	r.Get("/shopify/callback", h.Callback)
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/shopify", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/connect", h.Connect)
		r.Post("/products", h.Products)
		r.Get("/shops", h.ListShops)
		r.Post("/disconnect", h.Disconnect)
	})
}

func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	shop := r.URL.Query().Get("shop")
	if shop == "" {
		core.BadRequest(w, "shop is required")
		return
	}

	resp, err := h.service.Connect(r.Context(), userID, shop)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid shop domain")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	_, token, err := h.service.CompleteCallback(r.Context(), r.URL.Query())
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid oauth callback")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payload, err := h.service.Products(r.Context(), userID, req.Shop, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "shop")
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("shopify"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	shops, err := h.service.ListShops(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, shops)
}

func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req DisconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.Disconnect(r.Context(), userID, req.Shop); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "shop")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
