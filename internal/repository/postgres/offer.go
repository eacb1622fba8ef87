package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/pkg/database"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
)

// OfferRepository implements repository.OfferRepository using PostgreSQL.
type OfferRepository struct {
	db database.DBTX
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(db database.DBTX) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id, code, description, discount, styling, priority,
	   valid_until, created_at, updated_at`

// Create inserts a new special offer.
func (r *OfferRepository) Create(ctx context.Context, o *domain.SpecialOffer) error {
	query := `
		INSERT INTO special_offers (
			id, code, description, discount, styling, priority,
			valid_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		o.ID,
		o.Code,
		o.Description,
		o.Discount,
		o.Styling,
		o.Priority,
		o.ValidUntil,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(fmt.Sprintf("offer code %s already exists", o.Code))
		}
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer by its identifier.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.SpecialOffer, error) {
	query := fmt.Sprintf(`SELECT %s FROM special_offers WHERE id = $1`, offerColumns)

	var o domain.SpecialOffer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Code,
		&o.Description,
		&o.Discount,
		&o.Styling,
		&o.Priority,
		&o.ValidUntil,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan offer: %w", err)
	}

	return &o, nil
}

// ListActive returns unexpired offers sorted by priority ascending, ties
// broken by creation order.
func (r *OfferRepository) ListActive(ctx context.Context, now time.Time) ([]domain.SpecialOffer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM special_offers
		WHERE valid_until >= $1
		ORDER BY priority ASC, created_at ASC`, offerColumns)

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list active offers: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// ListAll returns every offer, including expired ones, for admin views.
func (r *OfferRepository) ListAll(ctx context.Context, page, perPage int) ([]domain.SpecialOffer, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM special_offers
		ORDER BY priority ASC, created_at ASC
		LIMIT $1 OFFSET $2`, offerColumns)

	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var (
		offers     []domain.SpecialOffer
		totalCount int
	)

	for rows.Next() {
		var o domain.SpecialOffer
		if err := rows.Scan(
			&o.ID,
			&o.Code,
			&o.Description,
			&o.Discount,
			&o.Styling,
			&o.Priority,
			&o.ValidUntil,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate offer rows: %w", err)
	}

	if offers == nil {
		offers = []domain.SpecialOffer{}
	}

	return offers, totalCount, nil
}

// Update modifies an existing offer.
func (r *OfferRepository) Update(ctx context.Context, o *domain.SpecialOffer) error {
	o.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE special_offers
		SET code = $1, description = $2, discount = $3, styling = $4,
		    priority = $5, valid_until = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.db.Exec(ctx, query,
		o.Code,
		o.Description,
		o.Discount,
		o.Styling,
		o.Priority,
		o.ValidUntil,
		o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(fmt.Sprintf("offer code %s already exists", o.Code))
		}
		return fmt.Errorf("update offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", o.ID)
	}

	return nil
}

// Delete removes an offer by its identifier.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM special_offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", id)
	}

	return nil
}

func scanOffers(rows pgx.Rows) ([]domain.SpecialOffer, error) {
	var offers []domain.SpecialOffer
	for rows.Next() {
		var o domain.SpecialOffer
		if err := rows.Scan(
			&o.ID,
			&o.Code,
			&o.Description,
			&o.Discount,
			&o.Styling,
			&o.Priority,
			&o.ValidUntil,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer rows: %w", err)
	}

	if offers == nil {
		offers = []domain.SpecialOffer{}
	}

	return offers, nil
}
