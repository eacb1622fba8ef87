package domain

import (
	"sort"
	"time"
)

// SpecialOffer is a promotional code shown on the booking pages.
type SpecialOffer struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Discount    string    `json:"discount"`
	Styling     string    `json:"styling,omitempty"`
	Priority    int       `json:"priority"`
	ValidUntil  time.Time `json:"valid_until"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsExpired reports whether the offer's validity window has passed at the
// given instant.
func (o *SpecialOffer) IsExpired(now time.Time) bool {
	return now.After(o.ValidUntil)
}

// ActiveOffers filters out expired offers and sorts the remainder by priority
// ascending. The sort is stable, so offers with equal priority keep their
// original order.
func ActiveOffers(offers []SpecialOffer, now time.Time) []SpecialOffer {
	active := make([]SpecialOffer, 0, len(offers))
	for _, o := range offers {
		if !o.IsExpired(now) {
			active = append(active, o)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	return active
}
