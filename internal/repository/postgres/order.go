package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/repository"
	"github.com/pixelcraft/booking-service/pkg/database"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, technologies, features, hosting_choice, hosting_price,
	   maintenance_plan, maintenance_price, contact_name, contact_email,
	   contact_phone, contact_company, project_brief, total_price, currency,
	   status, gateway_order_id, payment_id, created_at, updated_at`

// Create inserts a new order. The write is a single INSERT so a failure
// leaves no partial record behind.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	technologiesJSON, err := json.Marshal(o.Technologies)
	if err != nil {
		return fmt.Errorf("marshal technologies: %w", err)
	}
	featuresJSON, err := json.Marshal(o.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, technologies, features, hosting_choice, hosting_price,
			maintenance_plan, maintenance_price, contact_name, contact_email,
			contact_phone, contact_company, project_brief, total_price, currency,
			status, gateway_order_id, payment_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = r.db.Exec(ctx, query,
		o.ID,
		technologiesJSON,
		featuresJSON,
		o.HostingChoice,
		o.HostingPrice,
		o.MaintenancePlan,
		o.MaintenancePrice,
		o.Contact.Name,
		o.Contact.Email,
		o.Contact.Phone,
		o.Contact.Company,
		o.Contact.ProjectBrief,
		o.TotalPrice,
		o.Currency,
		o.Status,
		o.GatewayOrderID,
		o.PaymentID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(fmt.Sprintf("order %s already exists", o.ID))
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	return r.scanOrder(ctx, query, id)
}

// GetByGatewayOrderID retrieves the order bound to a gateway order id.
func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE gateway_order_id = $1`, orderColumns)
	return r.scanOrder(ctx, query, gatewayOrderID)
}

// List returns orders matching the filter along with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		orderColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		orders     []domain.Order
		totalCount int
	)

	for rows.Next() {
		var (
			o                domain.Order
			technologiesJSON []byte
			featuresJSON     []byte
		)

		if err := rows.Scan(
			&o.ID,
			&technologiesJSON,
			&featuresJSON,
			&o.HostingChoice,
			&o.HostingPrice,
			&o.MaintenancePlan,
			&o.MaintenancePrice,
			&o.Contact.Name,
			&o.Contact.Email,
			&o.Contact.Phone,
			&o.Contact.Company,
			&o.Contact.ProjectBrief,
			&o.TotalPrice,
			&o.Currency,
			&o.Status,
			&o.GatewayOrderID,
			&o.PaymentID,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if err := unmarshalSelections(&o, technologiesJSON, featuresJSON); err != nil {
			return nil, 0, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	return orders, totalCount, nil
}

// SetGatewayOrder binds the gateway's order id to a pending order.
func (r *OrderRepository) SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error {
	query := `
		UPDATE orders
		SET gateway_order_id = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	ct, err := r.db.Exec(ctx, query, gatewayOrderID, time.Now().UTC(), id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("set gateway order: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// MarkConfirmed transitions a pending order to confirmed. The conditional
// UPDATE is the sole consistency mechanism: a zero-row result means another
// path already settled the order, which callers treat as idempotent success.
func (r *OrderRepository) MarkConfirmed(ctx context.Context, id, paymentID string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, payment_id = $2, updated_at = $3
		WHERE id = $4 AND status = $5`

	ct, err := r.db.Exec(ctx, query, domain.StatusConfirmed, paymentID, time.Now().UTC(), id, domain.StatusPending)
	if err != nil {
		return false, fmt.Errorf("confirm order: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// MarkFailed transitions a pending order to failed.
func (r *OrderRepository) MarkFailed(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	ct, err := r.db.Exec(ctx, query, domain.StatusFailed, time.Now().UTC(), id, domain.StatusPending)
	if err != nil {
		return false, fmt.Errorf("fail order: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// scanOrder executes a query expected to return a single order row.
func (r *OrderRepository) scanOrder(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	var (
		o                domain.Order
		technologiesJSON []byte
		featuresJSON     []byte
	)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&o.ID,
		&technologiesJSON,
		&featuresJSON,
		&o.HostingChoice,
		&o.HostingPrice,
		&o.MaintenancePlan,
		&o.MaintenancePrice,
		&o.Contact.Name,
		&o.Contact.Email,
		&o.Contact.Phone,
		&o.Contact.Company,
		&o.Contact.ProjectBrief,
		&o.TotalPrice,
		&o.Currency,
		&o.Status,
		&o.GatewayOrderID,
		&o.PaymentID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := unmarshalSelections(&o, technologiesJSON, featuresJSON); err != nil {
		return nil, err
	}

	return &o, nil
}

func unmarshalSelections(o *domain.Order, technologiesJSON, featuresJSON []byte) error {
	if technologiesJSON != nil {
		if err := json.Unmarshal(technologiesJSON, &o.Technologies); err != nil {
			return fmt.Errorf("unmarshal technologies: %w", err)
		}
	}
	if o.Technologies == nil {
		o.Technologies = []string{}
	}

	if featuresJSON != nil {
		if err := json.Unmarshal(featuresJSON, &o.Features); err != nil {
			return fmt.Errorf("unmarshal features: %w", err)
		}
	}
	if o.Features == nil {
		o.Features = []string{}
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
