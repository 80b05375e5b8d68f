package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/middleware"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
)

// PricingController exposes effective prices and the admin overrides
type PricingController struct {
	pricingService services.PricingService
}

// NewPricingController creates a new PricingController
func NewPricingController(pricingService services.PricingService) *PricingController {
	return &PricingController{pricingService: pricingService}
}

// GetPrices lists the effective price of every course
// @Summary List prices
// @Tags pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PriceListResponse} "Prices retrieved successfully"
// @Failure 503 {object} dto.ErrorResponse "Price storage unavailable"
// @Router /pricing [get]
func (pc *PricingController) GetPrices(c *gin.Context) {
	prices, err := pc.pricingService.ListPrices(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp := dto.PriceListResponse{Prices: prices}
	promo, err := pc.pricingService.GetPromotion(c.Request.Context())
	switch {
	case err == nil:
		resp.Promotion = promo
	case !errors.Is(err, apperrors.ErrNoPromotion):
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetPrice returns the effective price of one course
// @Summary Get price
// @Tags pricing
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} dto.APIResponse{data=models.EffectivePrice} "Price retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Training not found"
// @Failure 503 {object} dto.ErrorResponse "Price storage unavailable"
// @Router /pricing/{slug} [get]
func (pc *PricingController) GetPrice(c *gin.Context) {
	price, err := pc.pricingService.GetPrice(c.Request.Context(), c.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      price,
		Timestamp: time.Now(),
	})
}

// UpdatePrice stores a price override
// @Summary Override a price
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Course slug"
// @Param request body dto.UpdatePriceRequest true "New price"
// @Success 200 {object} dto.APIResponse{data=models.EffectivePrice} "Price updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Training not found"
// @Router /admin/pricing/{slug} [put]
func (pc *PricingController) UpdatePrice(c *gin.Context) {
	var req dto.UpdatePriceRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	price, err := pc.pricingService.UpdatePrice(c.Request.Context(), c.Param("slug"), req.Amount, req.Currency)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      price,
		Timestamp: time.Now(),
	})
}

// ResetPrice removes a price override
// @Summary Reset a price to the catalog value
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} dto.APIResponse{data=models.EffectivePrice} "Price reset successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Training not found"
// @Router /admin/pricing/{slug} [delete]
func (pc *PricingController) ResetPrice(c *gin.Context) {
	price, err := pc.pricingService.ResetPrice(c.Request.Context(), c.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      price,
		Timestamp: time.Now(),
	})
}

// GetPromotion returns the site-wide promotion
// @Summary Get the current promotion
// @Tags pricing
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Promotion} "Promotion retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "No promotion configured"
// @Router /promotion [get]
func (pc *PricingController) GetPromotion(c *gin.Context) {
	promo, err := pc.pricingService.GetPromotion(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      promo,
		Timestamp: time.Now(),
	})
}

// UpdatePromotion replaces the site-wide promotion
// @Summary Update the promotion
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePromotionRequest true "New promotion"
// @Success 200 {object} dto.APIResponse{data=models.Promotion} "Promotion updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /admin/promotion [put]
func (pc *PricingController) UpdatePromotion(c *gin.Context) {
	var req dto.UpdatePromotionRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	input := services.PromotionInput{
		Percentage: *req.Percentage,
		Active:     *req.Active,
		Reason:     req.Reason,
	}
	if req.ValidUntil != "" {
		until, err := helpers.ParseDeadline(req.ValidUntil)
		if err != nil {
			middleware.HandleAPIError(c, fmt.Errorf("%w: validUntil: %v", apperrors.ErrValidationFailed, err))
			return
		}
		input.ValidUntil = until
	}

	promo, err := pc.pricingService.UpdatePromotion(c.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      promo,
		Timestamp: time.Now(),
	})
}
