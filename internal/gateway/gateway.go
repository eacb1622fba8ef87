// Package gateway integrates with the hosted payment gateway: order creation
// over its REST API and HMAC verification of its signed callbacks.
package gateway

import (
	"context"
)

// CreateOrderInput holds the parameters for creating a gateway order.
type CreateOrderInput struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the gateway's record of a created order.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// Gateway defines the interface for payment gateway integrations.
type Gateway interface {
	// Name returns the gateway name (e.g., "mock", "razorpay").
	Name() string

	// CreateOrder creates an order on the gateway using server-held
	// credentials. The returned id is what the hosted widget is opened with.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*GatewayOrder, error)

	// KeyID returns the public key identifier safe to hand to the client.
	KeyID() string
}
