package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/event"
	"github.com/pixelcraft/booking-service/internal/gateway"
	"github.com/pixelcraft/booking-service/internal/pricing"
	"github.com/pixelcraft/booking-service/internal/repository"
	"github.com/pixelcraft/booking-service/internal/wizard"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
	"github.com/pixelcraft/booking-service/pkg/validator"
)

// CheckoutService drives the booking wizard, order materialization, and the
// payment confirmation handshake.
type CheckoutService struct {
	orders        repository.OrderRepository
	sessions      repository.SessionStore
	gateway       gateway.Gateway
	producer      event.Publisher
	catalog       *pricing.Catalog
	paymentSecret string
	currency      string
	logger        *slog.Logger
}

// NewCheckoutService creates a new checkout service. paymentSecret is the
// gateway key secret used to verify checkout callback signatures.
func NewCheckoutService(
	orders repository.OrderRepository,
	sessions repository.SessionStore,
	gw gateway.Gateway,
	producer event.Publisher,
	catalog *pricing.Catalog,
	paymentSecret string,
	currency string,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:        orders,
		sessions:      sessions,
		gateway:       gw,
		producer:      producer,
		catalog:       catalog,
		paymentSecret: paymentSecret,
		currency:      currency,
		logger:        logger,
	}
}

// StartSession creates a new wizard session at the first step.
func (s *CheckoutService) StartSession(ctx context.Context) (*wizard.Session, error) {
	session := wizard.NewSession(uuid.New().String(), s.catalog, time.Now().UTC())

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save wizard session: %w", err)
	}

	return session, nil
}

// GetSession retrieves an existing wizard session.
func (s *CheckoutService) GetSession(ctx context.Context, id string) (*wizard.Session, error) {
	return s.sessions.Get(ctx, id)
}

// NextStep advances the wizard one step. Advancing past the last step is a
// no-op; the stored session is returned either way.
func (s *CheckoutService) NextStep(ctx context.Context, id string) (*wizard.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Next() {
		session.UpdatedAt = time.Now().UTC()
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save wizard session: %w", err)
		}
	}

	return session, nil
}

// BackStep moves the wizard one step back. At the first step it is a no-op.
func (s *CheckoutService) BackStep(ctx context.Context, id string) (*wizard.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Back() {
		session.UpdatedAt = time.Now().UTC()
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save wizard session: %w", err)
		}
	}

	return session, nil
}

// UpdateSelections merges a patch into the session, recomputing the quote
// when a priced field changed.
func (s *CheckoutService) UpdateSelections(ctx context.Context, id string, patch wizard.Patch) (*wizard.Session, error) {
	if err := validator.Validate(&patch); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.ApplySelections(patch, s.catalog, time.Now().UTC())

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save wizard session: %w", err)
	}

	return session, nil
}

// contactDetails mirrors the required contact fields for validation at
// materialization time.
type contactDetails struct {
	Name         string `validate:"required"`
	Email        string `validate:"required,email"`
	Phone        string `validate:"required"`
	ProjectBrief string `validate:"required"`
}

// newOrderID generates a practically unique order identifier: a UTC time
// prefix plus a random suffix.
func newOrderID(now time.Time) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), hex.EncodeToString(suffix))
}

// Materialize packages the wizard state into a pending order and persists it
// with a single atomic write. The total is derived server-side from the
// session's recomputed breakdown, never taken from the client.
func (s *CheckoutService) Materialize(ctx context.Context, sessionID string) (*domain.Order, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := validator.Validate(&contactDetails{
		Name:         session.Contact.Name,
		Email:        session.Contact.Email,
		Phone:        session.Contact.Phone,
		ProjectBrief: session.Contact.ProjectBrief,
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	breakdown := pricing.Quote(s.catalog, session.Selections)

	order := &domain.Order{
		ID:               newOrderID(now),
		Technologies:     session.Selections.Technologies,
		Features:         session.Selections.Features,
		HostingChoice:    session.Selections.Hosting,
		HostingPrice:     breakdown.Hosting,
		MaintenancePlan:  session.Selections.Maintenance,
		MaintenancePrice: breakdown.Maintenance,
		Contact:          session.Contact,
		TotalPrice:       breakdown.Total,
		Currency:         s.currency,
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

// GetOrder retrieves an order by its identifier.
func (s *CheckoutService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders returns orders matching the filter.
func (s *CheckoutService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	return s.orders.List(ctx, filter)
}

// GatewayOrderResult is handed back to the client so it can open the hosted
// widget. It carries the public key id only, never the secret.
type GatewayOrderResult struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// CreateGatewayOrder creates an order on the payment gateway for the given
// receipt (our order id). The amount is cross-checked against the stored
// total; a mismatch means the client tampered with it.
func (s *CheckoutService) CreateGatewayOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*GatewayOrderResult, error) {
	order, err := s.orders.GetByID(ctx, receipt)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.StatusPending {
		return nil, apperrors.Conflict("order is no longer pending")
	}
	if amount != order.TotalPrice {
		return nil, apperrors.InvalidInput("amount does not match order total")
	}
	if currency == "" {
		currency = order.Currency
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, &gateway.CreateOrderInput{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "gateway order creation failed",
			slog.String("order_id", receipt),
			slog.String("error", err.Error()),
		)
		// The wizard stays on the payment step; the caller sees a
		// generic retryable message.
		return nil, apperrors.ServiceUnavailable("failed to create payment order")
	}

	if err := s.orders.SetGatewayOrder(ctx, order.ID, gwOrder.ID); err != nil {
		return nil, err
	}

	return &GatewayOrderResult{
		ID:       gwOrder.ID,
		Amount:   gwOrder.Amount,
		Currency: gwOrder.Currency,
		Key:      s.gateway.KeyID(),
	}, nil
}

// ConfirmPaymentInput holds the three values the hosted widget hands back,
// plus the wizard session to clear on success.
type ConfirmPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	SessionID      string
}

// ConfirmPayment verifies the widget completion signature and settles the
// order. A valid signature confirms the order; confirming an order that is
// already confirmed is idempotent, while a valid signature for an order that
// already failed reports the stored outcome. An invalid signature fails a
// pending order and the caller gets a generic error with no signature detail.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*domain.Order, error) {
	order, err := s.orders.GetByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	if !gateway.VerifySignature(s.paymentSecret, input.GatewayOrderID, input.PaymentID, input.Signature) {
		// Security event: full detail stays server-side.
		s.logger.WarnContext(ctx, "payment signature verification failed",
			slog.String("order_id", order.ID),
			slog.String("gateway_order_id", input.GatewayOrderID),
			slog.String("payment_id", input.PaymentID),
		)

		applied, err := s.orders.MarkFailed(ctx, order.ID)
		if err != nil {
			return nil, err
		}

		if applied {
			order.Status = domain.StatusFailed
			if err := s.producer.PublishOrderFailed(ctx, order, "signature verification failed"); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish order.failed event",
					slog.String("order_id", order.ID),
					slog.String("error", err.Error()),
				)
			}
		}

		return nil, apperrors.PaymentFailed("invalid payment signature")
	}

	applied, err := s.orders.MarkConfirmed(ctx, order.ID, input.PaymentID)
	if err != nil {
		return nil, err
	}

	if applied {
		order.Status = domain.StatusConfirmed
		order.PaymentID = input.PaymentID
		if err := s.producer.PublishOrderConfirmed(ctx, order); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish order.confirmed event",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	} else {
		// Zero rows updated means another path settled the order first.
		// Report the stored outcome rather than assuming confirmation.
		settled, err := s.orders.GetByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if settled.Status != domain.StatusConfirmed {
			return nil, apperrors.PaymentFailed("order already settled")
		}
		order = settled
	}

	// Verified success clears the wizard state.
	if input.SessionID != "" {
		if err := s.sessions.Delete(ctx, input.SessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to clear wizard session",
				slog.String("session_id", input.SessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	return order, nil
}

// CancelPayment records that the user dismissed the widget. Not an error:
// the order stays pending for webhook reconciliation and the caller returns
// to the payment step.
func (s *CheckoutService) CancelPayment(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment canceled by user",
		slog.String("order_id", order.ID),
		slog.String("status", order.Status),
	)

	return order, nil
}
