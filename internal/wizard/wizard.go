// Package wizard owns the multi-step booking form state. Handlers never
// mutate a session directly; they submit patches which the controller merges.
package wizard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixelcraft/booking-service/internal/domain"
	"github.com/pixelcraft/booking-service/internal/pricing"
)

// Step identifies one step of the booking wizard. The set is closed; steps
// are ordered and addressed by index, never by free-form strings.
type Step int

const (
	StepTechnologies Step = iota
	StepFeatures
	StepHosting
	StepMaintenance
	StepDetails
	StepPayment
)

var stepNames = [...]string{
	StepTechnologies: "technologies",
	StepFeatures:     "features",
	StepHosting:      "hosting",
	StepMaintenance:  "maintenance",
	StepDetails:      "details",
	StepPayment:      "payment",
}

// LastStep is the terminal wizard step.
const LastStep = StepPayment

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalJSON encodes the step by name.
func (s Step) MarshalJSON() ([]byte, error) {
	if s < 0 || int(s) >= len(stepNames) {
		return nil, fmt.Errorf("invalid wizard step %d", int(s))
	}
	return json.Marshal(stepNames[s])
}

// UnmarshalJSON decodes a step name back into its index.
func (s *Step) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStep(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStep resolves a step name to its Step value.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown wizard step %q", name)
}

// Session is the transient state of one checkout attempt. It lives in the
// session store with a TTL until the order is materialized.
type Session struct {
	ID         string             `json:"id"`
	Step       Step               `json:"step"`
	Selections pricing.Selections `json:"selections"`
	Contact    domain.Contact     `json:"contact"`
	Breakdown  pricing.Breakdown  `json:"breakdown"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewSession creates a session at the first step with empty selections. The
// initial total is the catalog's base price alone.
func NewSession(id string, catalog *pricing.Catalog, now time.Time) *Session {
	return &Session{
		ID: id,
		Selections: pricing.Selections{
			Technologies: []string{},
			Features:     []string{},
		},
		Breakdown: pricing.Quote(catalog, pricing.Selections{}),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Next advances to the following step. At the last step it is a no-op and
// reports false. The wizard never auto-advances; this is the only way to
// reach the terminal step.
func (s *Session) Next() bool {
	if s.Step >= LastStep {
		return false
	}
	s.Step++
	return true
}

// Back returns to the previous step. At the first step it is a no-op and
// reports false.
func (s *Session) Back() bool {
	if s.Step <= StepTechnologies {
		return false
	}
	s.Step--
	return true
}

// Patch is a partial update submitted by one sub-form. Nil fields are left
// untouched by the merge.
type Patch struct {
	Technologies *[]string `json:"technologies,omitempty"`
	Features     *[]string `json:"features,omitempty"`
	Hosting      *string   `json:"hosting,omitempty"`
	Maintenance  *string   `json:"maintenance,omitempty"`

	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty"`
	Company      *string `json:"company,omitempty"`
	ProjectBrief *string `json:"project_brief,omitempty"`
}

// touchesPricing reports whether the patch changes any priced field.
func (p Patch) touchesPricing() bool {
	return p.Technologies != nil || p.Features != nil || p.Hosting != nil || p.Maintenance != nil
}

// ApplySelections shallow-merges the patch into the session and recomputes
// the full quote from scratch when a priced field was touched.
func (s *Session) ApplySelections(p Patch, catalog *pricing.Catalog, now time.Time) {
	if p.Technologies != nil {
		s.Selections.Technologies = *p.Technologies
	}
	if p.Features != nil {
		s.Selections.Features = *p.Features
	}
	if p.Hosting != nil {
		s.Selections.Hosting = *p.Hosting
	}
	if p.Maintenance != nil {
		s.Selections.Maintenance = *p.Maintenance
	}

	if p.Name != nil {
		s.Contact.Name = *p.Name
	}
	if p.Email != nil {
		s.Contact.Email = *p.Email
	}
	if p.Phone != nil {
		s.Contact.Phone = *p.Phone
	}
	if p.Company != nil {
		s.Contact.Company = *p.Company
	}
	if p.ProjectBrief != nil {
		s.Contact.ProjectBrief = *p.ProjectBrief
	}

	if p.touchesPricing() {
		s.Breakdown = pricing.Quote(catalog, s.Selections)
	}
	s.UpdatedAt = now
}
