package repository

import (
	"context"
	"time"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/wizard"
)

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	Status  *string
	Page    int
	PerPage int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order in a single atomic write.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByGatewayOrderID retrieves the order bound to a gateway order id.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)

	// List returns orders matching the filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// SetGatewayOrder binds the gateway's order id to a pending order.
	SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error

	// MarkConfirmed transitions a pending order to confirmed and records the
	// payment id. Returns false without error when the order was not pending,
	// so concurrent confirmations are idempotent.
	MarkConfirmed(ctx context.Context, id, paymentID string) (bool, error)

	// MarkFailed transitions a pending order to failed. Returns false without
	// error when the order was not pending.
	MarkFailed(ctx context.Context, id string) (bool, error)
}

// OfferRepository defines the interface for special-offer persistence.
type OfferRepository interface {
	// Create inserts a new special offer.
	Create(ctx context.Context, offer *domain.SpecialOffer) error

	// GetByID retrieves an offer by its identifier.
	GetByID(ctx context.Context, id string) (*domain.SpecialOffer, error)

	// ListActive returns unexpired offers sorted by priority ascending,
	// ties broken by creation order.
	ListActive(ctx context.Context, now time.Time) ([]domain.SpecialOffer, error)

	// ListAll returns every offer, including expired ones, for admin views.
	ListAll(ctx context.Context, page, perPage int) ([]domain.SpecialOffer, int, error)

	// Update modifies an existing offer.
	Update(ctx context.Context, offer *domain.SpecialOffer) error

	// Delete removes an offer by its identifier.
	Delete(ctx context.Context, id string) error
}

// AdminRepository defines the interface for admin account lookups.
type AdminRepository interface {
	// GetByEmail retrieves an admin account by email.
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)

	// Create inserts a new admin account.
	Create(ctx context.Context, admin *domain.AdminUser) error
}

// SessionStore persists transient wizard sessions with a TTL.
type SessionStore interface {
	// Save writes the session, resetting its TTL.
	Save(ctx context.Context, session *wizard.Session) error

	// Get retrieves a session by id.
	Get(ctx context.Context, id string) (*wizard.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
