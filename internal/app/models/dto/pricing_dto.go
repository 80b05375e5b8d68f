package dto

import "github.com/cloudevolvers/catalog/internal/app/models"

// UpdatePriceRequest overrides the catalog price of a course
type UpdatePriceRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0" example:"690"`
	Currency string  `json:"currency" binding:"required,len=3,uppercase" example:"EUR"`
}

// UpdatePromotionRequest replaces the site-wide promotion.
// ValidUntil takes a date (end of day, UTC) or an RFC 3339 timestamp.
type UpdatePromotionRequest struct {
	Percentage *int   `json:"percentage" binding:"required,min=0,max=100" example:"30"`
	Active     *bool  `json:"active" binding:"required" example:"true"`
	Reason     string `json:"reason" binding:"max=200" example:"New Company Launch Special"`
	ValidUntil string `json:"validUntil" example:"2025-12-31"`
}

// PriceListResponse lists the effective price of every course and the
// promotion behind any discount
type PriceListResponse struct {
	Prices    []models.EffectivePrice `json:"prices"`
	Promotion *models.Promotion       `json:"promotion,omitempty"`
}
