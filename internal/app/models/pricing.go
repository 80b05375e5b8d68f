package models

import "time"

// PriceSource tells where an effective price comes from
type PriceSource string

const (
	// PriceSourceCatalog means the price is the one in the course metadata
	PriceSourceCatalog PriceSource = "catalog"
	// PriceSourceOverride means an administrator set the price
	PriceSourceOverride PriceSource = "override"
)

// CoursePrice is a stored price for a course slug
type CoursePrice struct {
	Slug      string    `json:"slug" db:"slug"`
	Amount    float64   `json:"amount" db:"amount"`
	Currency  string    `json:"currency" db:"currency"`
	Override  bool      `json:"override" db:"override"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// EffectivePrice is the price a visitor sees for a course. Amount is the
// price before any promotion, FinalAmount what is charged.
type EffectivePrice struct {
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Amount      float64     `json:"amount"`
	FinalAmount float64     `json:"finalAmount"`
	Currency    string      `json:"currency"`
	Source      PriceSource `json:"source"`
	HasDiscount bool        `json:"hasDiscount"`
	Discount    *Discount   `json:"discount,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// Promotion is the site-wide discount applied on top of effective prices.
// There is at most one stored promotion.
type Promotion struct {
	Percentage int       `json:"percentage" db:"percentage"`
	Active     bool      `json:"active" db:"active"`
	Reason     string    `json:"reason" db:"reason"`
	ValidUntil time.Time `json:"validUntil" db:"valid_until"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// AppliesAt reports whether the promotion discounts prices at t.
// A promotion stays valid through the ValidUntil instant.
func (p *Promotion) AppliesAt(t time.Time) bool {
	if p == nil || !p.Active || p.Percentage <= 0 {
		return false
	}
	return !t.After(p.ValidUntil)
}

// Discount describes the promotion applied to one price
type Discount struct {
	Percentage int       `json:"percentage"`
	Reason     string    `json:"reason"`
	ValidUntil time.Time `json:"validUntil"`
	Amount     float64   `json:"amount"`
}
