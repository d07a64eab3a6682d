// ShopifyQ | 2026
// handler.go

package subuser

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopifyq/backend/internal/core"
	"github.com/shopifyq/backend/internal/middleware"
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

// RegisterRoutes mounts sub-user CRUD. Only admin accounts own teams.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/sub-users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{subUserID}", h.Get)
		r.Put("/{subUserID}", h.Update)
		r.Delete("/{subUserID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())

	var req CreateSubUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("email"))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, sub)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())

	subs, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, subs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "subUserID")

	sub, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "sub-user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, sub)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "subUserID")

	var req UpdateSubUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Update(r.Context(), ownerID, id, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "sub-user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, sub)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	id := chi.URLParam(r, "subUserID")

	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "sub-user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
