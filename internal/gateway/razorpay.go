package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pixelcraft/booking-service/pkg/httpclient"
)

// RazorpayConfig holds the server-held gateway credentials. The key secret
// never leaves this package.
type RazorpayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

// RazorpayGateway creates orders through the gateway's REST API, guarded by
// the retrying HTTP client and circuit breaker.
type RazorpayGateway struct {
	cfg    RazorpayConfig
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// NewRazorpayGateway creates a new gateway client.
func NewRazorpayGateway(cfg RazorpayConfig, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *RazorpayGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com/v1"
	}
	return &RazorpayGateway{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Name returns the gateway name.
func (g *RazorpayGateway) Name() string {
	return "razorpay"
}

// KeyID returns the public key identifier safe to hand to the client.
func (g *RazorpayGateway) KeyID() string {
	return g.cfg.KeyID
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates an order on the gateway. Credentials go out as basic
// auth on the server-to-server call only.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, input *CreateOrderInput) (*GatewayOrder, error) {
	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gateway order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("gateway order request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr razorpayErrorResponse
		if err := json.Unmarshal(respBody, &gwErr); err == nil && gwErr.Error.Description != "" {
			g.logger.ErrorContext(ctx, "gateway rejected order creation",
				slog.Int("status", resp.StatusCode),
				slog.String("code", gwErr.Error.Code),
				slog.String("description", gwErr.Error.Description),
			)
		} else {
			g.logger.ErrorContext(ctx, "gateway order creation failed",
				slog.Int("status", resp.StatusCode),
			)
		}
		return nil, fmt.Errorf("gateway order creation returned status %d", resp.StatusCode)
	}

	var order razorpayOrderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("decode gateway order response: %w", err)
	}

	return &GatewayOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
	}, nil
}
