package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelcraft/booking-service/internal/service"
	"github.com/pixelcraft/booking-service/pkg/validator"
)

// OfferHandler handles HTTP requests for special offer endpoints.
type OfferHandler struct {
	service *service.OfferService
	logger  *slog.Logger
}

// NewOfferHandler creates a new offer HTTP handler.
func NewOfferHandler(svc *service.OfferService, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{
		service: svc,
		logger:  logger,
	}
}

// OfferRequest is the JSON request body for creating or updating an offer.
type OfferRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Description string `json:"description"`
	Discount    string `json:"discount" validate:"required"`
	Styling     string `json:"styling"`
	Priority    int    `json:"priority" validate:"gte=0"`
	ValidUntil  string `json:"valid_until" validate:"required"`
}

func (req *OfferRequest) toInput(w http.ResponseWriter) (*service.OfferInput, bool) {
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "valid_until must be in RFC3339 format"},
		})
		return nil, false
	}

	return &service.OfferInput{
		Code:        req.Code,
		Description: req.Description,
		Discount:    req.Discount,
		Styling:     req.Styling,
		Priority:    req.Priority,
		ValidUntil:  validUntil,
	}, true
}

// ListActive handles GET /api/v1/offers
func (h *OfferHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	offers, err := h.service.ListActive(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: offers})
}

// ListAll handles GET /api/v1/admin/offers
func (h *OfferHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, perPage := 1, 20

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if pp, err := strconv.Atoi(v); err == nil && pp > 0 && pp <= 100 {
			perPage = pp
		}
	}

	offers, total, err := h.service.ListAll(r.Context(), page, perPage)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:       offers,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	})
}

// GetOffer handles GET /api/v1/admin/offers/{id}
func (h *OfferHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	offer, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: offer})
}

// CreateOffer handles POST /api/v1/admin/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input, ok := req.toInput(w)
	if !ok {
		return
	}

	offer, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: offer})
}

// UpdateOffer handles PUT /api/v1/admin/offers/{id}
func (h *OfferHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input, ok := req.toInput(w)
	if !ok {
		return
	}

	offer, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: offer})
}

// DeleteOffer handles DELETE /api/v1/admin/offers/{id}
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "offer id is required"},
		})
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
