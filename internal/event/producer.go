package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixelcraft/booking-service/internal/domain"
	pkgkafka "github.com/pixelcraft/booking-service/pkg/kafka"
)

// Kafka topic constants for order domain events.
const (
	TopicOrderCreated   = "booking.order.created"
	TopicOrderConfirmed = "booking.order.confirmed"
	TopicOrderFailed    = "booking.order.failed"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from this service.
const SourceBookingService = "booking-service"

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	ID           string   `json:"id"`
	Technologies []string `json:"technologies"`
	Features     []string `json:"features"`
	TotalPrice   int64    `json:"total_price"`
	Currency     string   `json:"currency"`
}

// OrderConfirmedData is the payload for an order.confirmed event.
type OrderConfirmedData struct {
	ID             string `json:"id"`
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	TotalPrice     int64  `json:"total_price"`
	Currency       string `json:"currency"`
}

// OrderFailedData is the payload for an order.failed event.
type OrderFailedData struct {
	ID             string `json:"id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Reason         string `json:"reason"`
}

// Publisher publishes order domain events.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishOrderConfirmed(ctx context.Context, order *domain.Order) error
	PublishOrderFailed(ctx context.Context, order *domain.Order, reason string) error
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:           order.ID,
		Technologies: order.Technologies,
		Features:     order.Features,
		TotalPrice:   order.TotalPrice,
		Currency:     order.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceBookingService, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
	)

	return nil
}

// PublishOrderConfirmed publishes an order.confirmed event.
func (p *Producer) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	data := OrderConfirmedData{
		ID:             order.ID,
		GatewayOrderID: order.GatewayOrderID,
		PaymentID:      order.PaymentID,
		TotalPrice:     order.TotalPrice,
		Currency:       order.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicOrderConfirmed, order.ID, AggregateTypeOrder, SourceBookingService, data)
	if err != nil {
		return fmt.Errorf("create order.confirmed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderConfirmed, event); err != nil {
		return fmt.Errorf("publish order.confirmed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.confirmed event",
		slog.String("order_id", order.ID),
		slog.String("payment_id", order.PaymentID),
	)

	return nil
}

// PublishOrderFailed publishes an order.failed event.
func (p *Producer) PublishOrderFailed(ctx context.Context, order *domain.Order, reason string) error {
	data := OrderFailedData{
		ID:             order.ID,
		GatewayOrderID: order.GatewayOrderID,
		Reason:         reason,
	}

	event, err := pkgkafka.NewEvent(TopicOrderFailed, order.ID, AggregateTypeOrder, SourceBookingService, data)
	if err != nil {
		return fmt.Errorf("create order.failed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderFailed, event); err != nil {
		return fmt.Errorf("publish order.failed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.failed event",
		slog.String("order_id", order.ID),
		slog.String("reason", reason),
	)

	return nil
}
