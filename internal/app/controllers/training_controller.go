package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/middleware"
	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
)

// TrainingController serves the course catalog
type TrainingController struct {
	trainingService services.TrainingService
	pricingService  services.PricingService
	logger          zerolog.Logger
}

// NewTrainingController creates a new TrainingController
func NewTrainingController(trainingService services.TrainingService, pricingService services.PricingService, logger zerolog.Logger) *TrainingController {
	return &TrainingController{
		trainingService: trainingService,
		pricingService:  pricingService,
		logger:          logger,
	}
}

// GetTrainings lists the catalog
// @Summary List trainings
// @Description Returns the catalog in its curated order, optionally filtered by category, tag, featured flag or a search term
// @Tags trainings
// @Produce json
// @Param category query string false "Category (case-insensitive)"
// @Param featured query bool false "Only featured trainings"
// @Param q query string false "Search in title, description and tags"
// @Param tag query string false "Exact course tag"
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.TrainingListResponse} "Trainings retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /trainings [get]
func (tc *TrainingController) GetTrainings(c *gin.Context) {
	var req dto.TrainingFilterRequest
	if !middleware.BindQuery(c, &req) {
		return
	}

	all := tc.trainingService.ListTrainings(c.Request.Context(), services.TrainingQuery{
		Category: req.Category,
		Featured: req.Featured,
		Search:   req.Query,
		Tag:      req.Tag,
	})
	page, info := helpers.Paginate(all, req.Page, req.Size)

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.TrainingListResponse{Trainings: page, Pagination: info},
		Timestamp: time.Now(),
	})
}

// GetTrainingBySlug returns one course with its effective price
// @Summary Get training details
// @Description Returns the metadata of a course. The effective price is omitted when the price store is unavailable.
// @Tags trainings
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} dto.APIResponse{data=dto.TrainingResponse} "Training retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Training not found"
// @Router /trainings/{slug} [get]
func (tc *TrainingController) GetTrainingBySlug(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	meta, err := tc.trainingService.GetTraining(ctx, slug)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp := dto.TrainingResponse{CourseMetadata: *meta}
	price, err := tc.pricingService.GetPrice(ctx, slug)
	if err != nil {
		tc.logger.Warn().Err(err).Str("slug", slug).Msg("Serving training without effective price")
	} else {
		resp.EffectivePrice = price
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetTrainingContent returns the body of a course
// @Summary Get training content
// @Description Returns the course body as HTML or Markdown together with its h2/h3 outline
// @Tags trainings
// @Produce json
// @Param slug path string true "Course slug"
// @Param format query string false "Body format" Enums(html, markdown) default(html)
// @Success 200 {object} dto.APIResponse{data=dto.TrainingContentResponse} "Content retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown format"
// @Failure 404 {object} dto.ErrorResponse "Content not found"
// @Failure 500 {object} dto.ErrorResponse "Content could not be rendered"
// @Router /trainings/{slug}/content [get]
func (tc *TrainingController) GetTrainingContent(c *gin.Context) {
	var req dto.TrainingContentRequest
	if !middleware.BindQuery(c, &req) {
		return
	}

	content, err := tc.trainingService.GetContent(c.Request.Context(), c.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	outline, err := content.Outline()
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	body := content.HTML
	if req.Format == dto.ContentFormatMarkdown {
		if body, err = content.Markdown(); err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.TrainingContentResponse{
			Slug:    content.Slug,
			Format:  req.Format,
			Body:    body,
			Outline: outline,
		},
		Timestamp: time.Now(),
	})
}
