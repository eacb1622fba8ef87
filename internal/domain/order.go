package domain

import (
	"time"
)

// Order status constants.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Order represents one checkout attempt for a project booking.
type Order struct {
	ID               string    `json:"id"`
	Technologies     []string  `json:"technologies"`
	Features         []string  `json:"features"`
	HostingChoice    string    `json:"hosting_choice,omitempty"`
	HostingPrice     int64     `json:"hosting_price"`
	MaintenancePlan  string    `json:"maintenance_plan,omitempty"`
	MaintenancePrice int64     `json:"maintenance_price"`
	Contact          Contact   `json:"contact"`
	TotalPrice       int64     `json:"total_price"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	GatewayOrderID   string    `json:"gateway_order_id,omitempty"`
	PaymentID        string    `json:"payment_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Contact holds the customer and project metadata captured on the details step.
type Contact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company,omitempty"`
	ProjectBrief string `json:"project_brief"`
}

// IsTerminal returns true if the order is in a final state.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusConfirmed || o.Status == StatusFailed
}

// ValidStatuses returns the set of valid order statuses.
func ValidStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusFailed}
}

// IsValidStatus checks whether the given status string is a valid order status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
