package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pixelcraft/booking-service/internal/domain"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
)

// Webhook handlers for the gateway's asynchronous events. These run without
// any live user session and may race with the interactive confirmation path;
// the conditional status transitions in the order store absorb the race.

// HandlePaymentAuthorized records an authorization. Authorization precedes
// capture, so the order stays pending until the captured event arrives.
func (s *CheckoutService) HandlePaymentAuthorized(ctx context.Context, gatewayOrderID, paymentID string) error {
	order, err := s.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return s.ignoreUnknownOrder(ctx, "payment.authorized", gatewayOrderID, err)
	}

	s.logger.InfoContext(ctx, "payment authorized",
		slog.String("order_id", order.ID),
		slog.String("payment_id", paymentID),
	)

	return nil
}

// HandlePaymentCaptured confirms the order for a captured payment.
func (s *CheckoutService) HandlePaymentCaptured(ctx context.Context, gatewayOrderID, paymentID string) error {
	order, err := s.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return s.ignoreUnknownOrder(ctx, "payment.captured", gatewayOrderID, err)
	}

	applied, err := s.orders.MarkConfirmed(ctx, order.ID, paymentID)
	if err != nil {
		return err
	}

	if !applied {
		// Already settled by the interactive path or an earlier delivery.
		s.logger.DebugContext(ctx, "payment.captured for settled order",
			slog.String("order_id", order.ID),
		)
		return nil
	}

	order.Status = domain.StatusConfirmed
	order.PaymentID = paymentID

	if err := s.producer.PublishOrderConfirmed(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.confirmed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// HandlePaymentFailed fails the order for a failed payment.
func (s *CheckoutService) HandlePaymentFailed(ctx context.Context, gatewayOrderID, paymentID string) error {
	order, err := s.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return s.ignoreUnknownOrder(ctx, "payment.failed", gatewayOrderID, err)
	}

	applied, err := s.orders.MarkFailed(ctx, order.ID)
	if err != nil {
		return err
	}

	if applied {
		order.Status = domain.StatusFailed
		if err := s.producer.PublishOrderFailed(ctx, order, "gateway reported payment failure"); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish order.failed event",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// HandleOrderPaid confirms the order for an order.paid event. The event
// carries the settling payment alongside the order entity, so the payment id
// is recorded the same way a captured event records it.
func (s *CheckoutService) HandleOrderPaid(ctx context.Context, gatewayOrderID, paymentID string) error {
	return s.HandlePaymentCaptured(ctx, gatewayOrderID, paymentID)
}

// ignoreUnknownOrder acknowledges events for orders this service never
// created. Returning an error would make the gateway retry forever.
func (s *CheckoutService) ignoreUnknownOrder(ctx context.Context, eventType, gatewayOrderID string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "webhook event for unknown order",
			slog.String("event", eventType),
			slog.String("gateway_order_id", gatewayOrderID),
		)
		return nil
	}
	return err
}
