// ShopifyQ | 2026
// handler.go

package document

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/invoices", h.CreateInvoice)
		r.Post("/packing-lists", h.CreatePackingList)
		r.Post("/certificates", h.CreateCertificate)
		r.Get("/orders/{orderID}", h.OrderDocuments)
	})
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	invoice, err := h.service.CreateInvoice(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, invoice)
}

func (h *Handler) CreatePackingList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreatePackingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	list, err := h.service.CreatePackingList(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, list)
}

func (h *Handler) CreateCertificate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	cert, err := h.service.CreateCertificate(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, cert)
}

func (h *Handler) OrderDocuments(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	docs, err := h.service.OrderDocuments(r.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "order documents")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, docs)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidInput) {
		core.BadRequest(w, err.Error())
		return
	}
	core.InternalServerError(w, err)
}
