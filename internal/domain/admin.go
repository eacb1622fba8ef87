package domain

import "time"

// Admin roles.
const (
	RoleAdmin = "admin"
)

// AdminUser is a back-office account allowed to manage special offers.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
