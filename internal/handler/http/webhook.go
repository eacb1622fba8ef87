package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/pixelcraft/booking-service/internal/gateway"
	"github.com/pixelcraft/booking-service/internal/service"
)

// signatureHeader is the header Razorpay signs webhook deliveries with.
const signatureHeader = "X-Razorpay-Signature"

// WebhookHandler receives asynchronous payment events from the gateway. It is
// independent of the interactive checkout path and may fire with no live user
// session.
type WebhookHandler struct {
	service *service.CheckoutService
	secret  string
	logger  *slog.Logger
}

// NewWebhookHandler creates a new webhook HTTP handler. The secret is the
// webhook signing secret configured on the gateway dashboard, distinct from
// the API key secret.
func NewWebhookHandler(svc *service.CheckoutService, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: svc,
		secret:  secret,
		logger:  logger,
	}
}

// webhookPayload mirrors the gateway's event envelope. Only the fields the
// dispatch needs are decoded.
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// HandleEvent handles POST /api/v1/webhooks/payment
//
// The signature is computed over the exact raw bytes of the body, so the
// body is read before any JSON decoding and the decoder never sees an
// unverified payload.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		// No signing secret means no way to authenticate the caller.
		// Refuse everything rather than accept unverified events.
		h.logger.ErrorContext(r.Context(), "webhook secret not configured, rejecting event")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "webhook processing unavailable"})
		return
	}

	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing signature header"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read webhook body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read request body"})
		return
	}

	if !gateway.VerifyWebhookSignature(h.secret, body, signature) {
		h.logger.WarnContext(r.Context(), "webhook signature mismatch",
			slog.String("remote_addr", r.RemoteAddr),
			slog.Int("body_bytes", len(body)),
		)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Authenticated but unparseable. A server error makes the
		// gateway redeliver instead of dropping the event.
		h.logger.ErrorContext(r.Context(), "malformed webhook payload", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "malformed payload"})
		return
	}

	paymentEntity := payload.Payload.Payment.Entity

	switch payload.Event {
	case "payment.authorized":
		err = h.service.HandlePaymentAuthorized(r.Context(), paymentEntity.OrderID, paymentEntity.ID)
	case "payment.captured":
		err = h.service.HandlePaymentCaptured(r.Context(), paymentEntity.OrderID, paymentEntity.ID)
	case "payment.failed":
		err = h.service.HandlePaymentFailed(r.Context(), paymentEntity.OrderID, paymentEntity.ID)
	case "order.paid":
		err = h.service.HandleOrderPaid(r.Context(), payload.Payload.Order.Entity.ID, paymentEntity.ID)
	default:
		h.logger.InfoContext(r.Context(), "ignoring unknown webhook event",
			slog.String("event", payload.Event),
		)
	}

	if err != nil {
		h.logger.ErrorContext(r.Context(), "webhook handler failed",
			slog.String("event", payload.Event),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "event processing failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
