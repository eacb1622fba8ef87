package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/pixelcraft/booking-service/internal/gateway"
)

// Gateway is a mock payment gateway that always succeeds. It is intended for
// development and testing purposes.
type Gateway struct {
	keyID string
}

// NewGateway creates a new mock gateway.
func NewGateway() *Gateway {
	return &Gateway{keyID: "rzp_test_mock"}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "mock"
}

// KeyID returns a fixed test key identifier.
func (g *Gateway) KeyID() string {
	return g.keyID
}

// CreateOrder simulates order creation, echoing the request back with a
// generated id.
func (g *Gateway) CreateOrder(_ context.Context, input *gateway.CreateOrderInput) (*gateway.GatewayOrder, error) {
	return &gateway.GatewayOrder{
		ID:       "order_mock_" + uuid.New().String(),
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
	}, nil
}
