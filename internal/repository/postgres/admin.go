package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/pkg/database"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
)

// AdminRepository implements repository.AdminRepository using PostgreSQL.
type AdminRepository struct {
	db database.DBTX
}

// NewAdminRepository creates a new PostgreSQL-backed admin repository.
func NewAdminRepository(db database.DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail retrieves an admin account by email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM admin_users
		WHERE email = $1`

	var a domain.AdminUser
	err := r.db.QueryRow(ctx, query, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin user: %w", err)
	}

	return &a, nil
}

// Create inserts a new admin account.
func (r *AdminRepository) Create(ctx context.Context, a *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.Role,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(fmt.Sprintf("admin %s already exists", a.Email))
		}
		return fmt.Errorf("insert admin user: %w", err)
	}

	return nil
}
