package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/repository"
	"github.com/pixelcraft/booking-service/internal/service"
	"github.com/pixelcraft/booking-service/internal/wizard"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
	"github.com/pixelcraft/booking-service/pkg/validator"
)

// CheckoutHandler handles the wizard session and order endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// MaterializeOrderRequest is the JSON request body for creating an order from
// a completed wizard session.
type MaterializeOrderRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// StartSession handles POST /api/v1/checkout/sessions
func (h *CheckoutHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.StartSession(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: sess})
}

// GetSession handles GET /api/v1/checkout/sessions/{id}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "session id is required"},
		})
		return
	}

	sess, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: sess})
}

// NextStep handles POST /api/v1/checkout/sessions/{id}/next
func (h *CheckoutHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "session id is required"},
		})
		return
	}

	sess, err := h.service.NextStep(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: sess})
}

// BackStep handles POST /api/v1/checkout/sessions/{id}/back
func (h *CheckoutHandler) BackStep(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "session id is required"},
		})
		return
	}

	sess, err := h.service.BackStep(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: sess})
}

// UpdateSelections handles PATCH /api/v1/checkout/sessions/{id}/selections
func (h *CheckoutHandler) UpdateSelections(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "session id is required"},
		})
		return
	}

	var patch wizard.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	sess, err := h.service.UpdateSelections(r.Context(), id, patch)
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			writeValidationError(w, err)
			return
		}
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: sess})
}

// MaterializeOrder handles POST /api/v1/orders
func (h *CheckoutHandler) MaterializeOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req MaterializeOrderRequest
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

	order, err := h.service.Materialize(r.Context(), req.SessionID)
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			writeValidationError(w, err)
			return
		}
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: order})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "order id is required"},
		})
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}

// ListOrders handles GET /api/v1/admin/orders
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := repository.OrderFilter{
		Page:    1,
		PerPage: 20,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if perPage, err := strconv.Atoi(v); err == nil && perPage > 0 && perPage <= 100 {
			filter.PerPage = perPage
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		if !domain.IsValidStatus(v) {
			writeError(w, r, h.logger, apperrors.InvalidInput("invalid status filter"))
			return
		}
		filter.Status = &v
	}

	orders, total, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	totalPages := total / filter.PerPage
	if total%filter.PerPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:       orders,
		TotalCount: total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	})
}
