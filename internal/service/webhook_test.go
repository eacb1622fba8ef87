package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pixelcraft/booking-service/internal/domain"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
)

func TestHandlePaymentCaptured_ConfirmsOrder(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	order := pendingOrder()
	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	m.orders.On("MarkConfirmed", mock.Anything, "ORD-1", "pay_123").Return(true, nil)
	m.producer.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	err := svc.HandlePaymentCaptured(context.Background(), "order_G123", "pay_123")
	assert.NoError(t, err)
	m.orders.AssertExpectations(t)
}

func TestHandlePaymentCaptured_RaceWithInteractivePath(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	order := pendingOrder()
	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	m.orders.On("MarkConfirmed", mock.Anything, "ORD-1", "pay_123").Return(false, nil)

	// Both the verifier and the webhook may confirm the same order; the
	// losing side is a silent no-op.
	err := svc.HandlePaymentCaptured(context.Background(), "order_G123", "pay_123")
	assert.NoError(t, err)
	m.producer.AssertNotCalled(t, "PublishOrderConfirmed", mock.Anything, mock.Anything)
}

func TestHandlePaymentCaptured_UnknownOrderAcked(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_foreign").Return(nil, apperrors.ErrNotFound)

	err := svc.HandlePaymentCaptured(context.Background(), "order_foreign", "pay_123")
	assert.NoError(t, err)
}

func TestHandlePaymentCaptured_StoreErrorPropagates(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(nil, errors.New("connection reset"))

	err := svc.HandlePaymentCaptured(context.Background(), "order_G123", "pay_123")
	assert.Error(t, err)
}

func TestHandlePaymentFailed_FailsPendingOrder(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	order := pendingOrder()
	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	m.orders.On("MarkFailed", mock.Anything, "ORD-1").Return(true, nil)
	m.producer.On("PublishOrderFailed", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.HandlePaymentFailed(context.Background(), "order_G123", "pay_123")
	assert.NoError(t, err)
	m.orders.AssertExpectations(t)
}

func TestHandlePaymentFailed_SettledOrderUntouched(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	order := pendingOrder()
	order.Status = domain.StatusConfirmed
	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	m.orders.On("MarkFailed", mock.Anything, "ORD-1").Return(false, nil)

	err := svc.HandlePaymentFailed(context.Background(), "order_G123", "pay_123")
	assert.NoError(t, err)
	m.producer.AssertNotCalled(t, "PublishOrderFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlePaymentAuthorized_LeavesOrderPending(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	order := pendingOrder()
	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)

	err := svc.HandlePaymentAuthorized(context.Background(), "order_G123", "pay_123")
	assert.NoError(t, err)
	m.orders.AssertNotCalled(t, "MarkConfirmed", mock.Anything, mock.Anything, mock.Anything)
	m.orders.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
}

func TestHandleOrderPaid_Confirms(t *testing.T) {
	svc, m := newTestCheckoutService(t)

	order := pendingOrder()
	m.orders.On("GetByGatewayOrderID", mock.Anything, "order_G123").Return(order, nil)
	m.orders.On("MarkConfirmed", mock.Anything, "ORD-1", "pay_789").Return(true, nil)
	m.producer.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	err := svc.HandleOrderPaid(context.Background(), "order_G123", "pay_789")
	assert.NoError(t, err)
	m.orders.AssertExpectations(t)
}
