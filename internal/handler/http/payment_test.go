package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validSignature(gatewayOrderID, paymentID string) string {
	return signBody(testPaymentSecret, []byte(gatewayOrderID+"|"+paymentID))
}

func TestCreateGatewayOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	router := setupRouter(orders, sessions)

	order := pendingWebhookOrder()
	order.GatewayOrderID = ""
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("SetGatewayOrder", mock.Anything, order.ID, mock.AnythingOfType("string")).Return(nil)

	body := []byte(fmt.Sprintf(`{"amount":15000,"currency":"INR","receipt":%q}`, order.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/payments/orders", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, float64(15000), resp["amount"])
	assert.Equal(t, "INR", resp["currency"])
	assert.Equal(t, "rzp_test_mock", resp["key"])
	orders.AssertExpectations(t)
}

func TestCreateGatewayOrder_AmountMismatch(t *testing.T) {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	router := setupRouter(orders, sessions)

	order := pendingWebhookOrder()
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	body := []byte(fmt.Sprintf(`{"amount":1,"currency":"INR","receipt":%q}`, order.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/payments/orders", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["error"])
	orders.AssertNotCalled(t, "SetGatewayOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	router := setupRouter(orders, sessions)

	order := pendingWebhookOrder()
	orders.On("GetByGatewayOrderID", mock.Anything, order.GatewayOrderID).Return(order, nil)
	orders.On("MarkConfirmed", mock.Anything, order.ID, "pay_123").Return(true, nil)

	body := []byte(fmt.Sprintf(`{"order_id":%q,"payment_id":"pay_123","signature":%q}`,
		order.GatewayOrderID, validSignature(order.GatewayOrderID, "pay_123")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/payments/verify", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp verifyPaymentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, order.ID, resp.OrderID)
	orders.AssertExpectations(t)
}

func TestVerifyPayment_InvalidSignature(t *testing.T) {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	router := setupRouter(orders, sessions)

	order := pendingWebhookOrder()
	orders.On("GetByGatewayOrderID", mock.Anything, order.GatewayOrderID).Return(order, nil)
	orders.On("MarkFailed", mock.Anything, order.ID).Return(true, nil)

	body := []byte(fmt.Sprintf(`{"order_id":%q,"payment_id":"pay_123","signature":"deadbeef"}`,
		order.GatewayOrderID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/payments/verify", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	raw := rec.Body.String()
	var resp verifyPaymentResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid payment signature", resp.Error)
	// Neither the received nor the expected signature leaks to the caller.
	assert.NotContains(t, raw, "deadbeef")
	orders.AssertExpectations(t)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	router := setupRouter(orders, sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/payments/verify", []byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	orders.AssertNotCalled(t, "GetByGatewayOrderID", mock.Anything, mock.Anything)
}

func TestCancelPayment_KeepsOrderPending(t *testing.T) {
	orders := new(mockOrderRepository)
	sessions := new(mockSessionStore)
	router := setupRouter(orders, sessions)

	order := pendingWebhookOrder()
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/payments/"+order.ID+"/cancel", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["canceled"])
	assert.Equal(t, "pending", resp["status"])
	orders.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "MarkConfirmed", mock.Anything, mock.Anything, mock.Anything)
}
