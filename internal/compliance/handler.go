// ShopifyQ | 2026
// handler.go

package compliance

import (
	"encoding/json"
	"errors"
	"net/http"

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
	r.Route("/compliance", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequirePlan(user.PlanStarter))

		r.Post("/classify", h.Classify)
		r.Post("/landed-cost", h.LandedCost)
	})
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Classify(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrUpstream) {
			core.JSONError(w, core.UpstreamError("classification"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) LandedCost(w http.ResponseWriter, r *http.Request) {
	var req LandedCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.LandedCost(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrUpstream) {
			core.JSONError(w, core.UpstreamError("landed cost"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}
