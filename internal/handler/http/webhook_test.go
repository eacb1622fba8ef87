package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/pkg/health"
)

const testWebhookSecret = "test-webhook-secret"

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func setupWebhookRouter(orders *mockOrderRepository, secret string) http.Handler {
	sessions := new(mockSessionStore)
	offers := new(mockOfferRepository)
	admins := new(mockAdminRepository)
	return NewRouter(
		testCheckoutService(orders, sessions),
		testOfferService(offers),
		testAuthService(admins),
		secret,
		health.NewHandler(),
		testLogger(),
	)
}

func postWebhook(router http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func pendingWebhookOrder() *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:             "ORD-20260310-a1b2c3",
		Technologies:   []string{"react"},
		TotalPrice:     15000,
		Currency:       "INR",
		Status:         domain.StatusPending,
		GatewayOrderID: "order_G123",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestWebhook_PaymentCaptured_ConfirmsOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	order := pendingWebhookOrder()
	orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	orders.On("MarkConfirmed", mock.Anything, order.ID, "pay_123").Return(true, nil)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_123","order_id":"order_G123"}}}}`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp["success"])
	orders.AssertExpectations(t)
}

func TestWebhook_TamperedBody_RejectedBeforeParsing(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	original := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_123","order_id":"order_G123"}}}}`)
	tampered := bytes.Replace(original, []byte("pay_123"), []byte("pay_999"), 1)
	rec := postWebhook(router, tampered, signBody(testWebhookSecret, original))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Invalid signature", resp["error"])
	// The store was never touched, so nothing was parsed or dispatched.
	orders.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
}

func TestWebhook_GarbageBodyWithForeignSignature_NoParseAttempt(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	// Valid hex signature computed over a different body. If the handler
	// parsed before verifying, this unparseable body would surface as a
	// 500 instead of a signature rejection.
	garbage := []byte(`{not json at all`)
	rec := postWebhook(router, garbage, signBody(testWebhookSecret, []byte("something else")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Invalid signature", resp["error"])
}

func TestWebhook_MissingSignatureHeader(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	rec := postWebhook(router, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	orders.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
}

func TestWebhook_MissingSecret_FailsClosed(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, "")

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	orders.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
}

func TestWebhook_MalformedJSONAfterValidSignature(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	body := []byte(`{"event":"payment.captured",`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	// Authenticated but unparseable bodies get a server error so the
	// gateway redelivers.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhook_UnknownEvent_Acknowledged(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	body := []byte(`{"event":"refund.processed","payload":{}}`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp["success"])
	orders.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
}

func TestWebhook_PaymentFailed_MarksOrderFailed(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	order := pendingWebhookOrder()
	orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	orders.On("MarkFailed", mock.Anything, order.ID).Return(true, nil)

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_123","order_id":"order_G123"}}}}`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestWebhook_OrderPaid_ConfirmsByGatewayOrderID(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	order := pendingWebhookOrder()
	orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	orders.On("MarkConfirmed", mock.Anything, order.ID, "pay_789").Return(true, nil)

	body := []byte(`{"event":"order.paid","payload":{"payment":{"entity":{"id":"pay_789","order_id":"order_G123"}},"order":{"entity":{"id":"order_G123"}}}}`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestWebhook_StoreFailure_ReturnsServerError(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupWebhookRouter(orders, testWebhookSecret)

	orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").
		Return(nil, assert.AnError)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_123","order_id":"order_G123"}}}}`)
	rec := postWebhook(router, body, signBody(testWebhookSecret, body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
