package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelcraft/booking-service/internal/service"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
	"github.com/pixelcraft/booking-service/pkg/validator"
)

// PaymentHandler handles the endpoints the hosted checkout widget talks to.
// These follow the gateway's wire contract rather than the standard envelope:
// the widget integration expects {id, amount, currency, key} and
// {success, order_id} shapes at the top level.
type PaymentHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc *service.CheckoutService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateGatewayOrderRequest is the JSON request body for creating a gateway
// order. Amount is in the smallest currency unit.
type CreateGatewayOrderRequest struct {
	Amount   int64             `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"required,len=3"`
	Receipt  string            `json:"receipt" validate:"required"`
	Notes    map[string]string `json:"notes"`
}

// VerifyPaymentRequest is the JSON request body the frontend posts after the
// widget's success callback fires.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	SessionID string `json:"session_id"`
}

type verifyPaymentResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateGatewayOrder handles POST /api/v1/payments/orders
func (h *PaymentHandler) CreateGatewayOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req CreateGatewayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.service.CreateGatewayOrder(r.Context(), req.Amount, req.Currency, req.Receipt, req.Notes)
	if err != nil {
		h.writeGatewayError(w, r, err, "failed to create order")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, verifyPaymentResponse{Error: "invalid request body"})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, verifyPaymentResponse{Error: err.Error()})
		return
	}

	order, err := h.service.ConfirmPayment(r.Context(), service.ConfirmPaymentInput{
		GatewayOrderID: req.OrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
		SessionID:      req.SessionID,
	})
	if err != nil {
		status := apperrors.HTTPStatus(err)
		message := "payment verification failed"
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "payment verification error",
				slog.String("error", err.Error()),
				slog.String("gateway_order_id", req.OrderID),
			)
			message = "payment verification failed"
		}
		writeJSON(w, status, verifyPaymentResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusOK, verifyPaymentResponse{
		Success: true,
		OrderID: order.ID,
	})
}

// CancelPayment handles POST /api/v1/payments/{orderID}/cancel
//
// Dismissing the widget is not a failure. The order stays pending so the
// user can reopen the widget and the webhook path can still settle it.
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order id is required"})
		return
	}

	order, err := h.service.CancelPayment(r.Context(), orderID)
	if err != nil {
		h.writeGatewayError(w, r, err, "failed to record cancellation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"canceled": true,
		"status":   order.Status,
	})
}

// writeGatewayError serves the flat {error} shape the widget integration
// expects. Internal detail never reaches the client.
func (h *PaymentHandler) writeGatewayError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	message := fallback

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "payment endpoint error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeJSON(w, status, map[string]string{"error": message})
}
