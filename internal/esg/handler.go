// ShopifyQ | 2026
// handler.go

package esg

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopifyq/backend/internal/core"
	"github.com/shopifyq/backend/internal/middleware"
	"github.com/shopifyq/backend/internal/user"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/esg", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequirePlan(user.PlanPro))

		r.Post("/requests", h.CreateRequest)
		r.Get("/requests", h.ListRequests)
		r.Get("/scores/{productID}", h.GetScore)
	})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.CreateRequest(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrUpstream) {
			core.JSONError(w, core.UpstreamError("esg scoring"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	requests, total, err := h.service.ListRequests(r.Context(), userID, page, pageSize)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, requests, page, pageSize, total)
}

func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	productID := chi.URLParam(r, "productID")

	score, err := h.service.GetScore(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "esg score")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, score)
}
