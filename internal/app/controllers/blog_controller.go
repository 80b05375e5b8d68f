package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/services"
	"github.com/cloudevolvers/catalog/internal/middleware"
	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
)

// BlogController serves the bilingual blog
type BlogController struct {
	blogService services.BlogService
}

// NewBlogController creates a new BlogController
func NewBlogController(blogService services.BlogService) *BlogController {
	return &BlogController{blogService: blogService}
}

// GetPosts lists posts newest first in the request locale
// @Summary List blog posts
// @Description Returns posts sorted by date (newest first), localized via ?locale=, ?lang= or Accept-Language
// @Tags blog
// @Produce json
// @Param locale query string false "Locale" Enums(en, nl)
// @Param tag query string false "Exact tag"
// @Param category query string false "Category in the request locale"
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.BlogListResponse} "Posts retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /blog [get]
func (bc *BlogController) GetPosts(c *gin.Context) {
	var req dto.BlogFilterRequest
	if !middleware.BindQuery(c, &req) {
		return
	}

	locale := middleware.GetLocale(c)
	posts := bc.blogService.ListPosts(c.Request.Context(), services.BlogQuery{Tag: req.Tag, Category: req.Category}, locale)
	page, info := helpers.Paginate(posts, req.Page, req.Size)

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.BlogListResponse{Locale: locale, Posts: page, Pagination: info},
		Timestamp: time.Now(),
	})
}

// GetPost returns one localized post
// @Summary Get blog post
// @Description Returns a post with every text resolved for the request locale, falling back to English
// @Tags blog
// @Produce json
// @Param id path string true "Post id"
// @Param locale query string false "Locale" Enums(en, nl)
// @Success 200 {object} dto.APIResponse{data=models.LocalizedBlogPost} "Post retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /blog/{id} [get]
func (bc *BlogController) GetPost(c *gin.Context) {
	post, err := bc.blogService.GetPost(c.Request.Context(), c.Param("id"), middleware.GetLocale(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      post,
		Timestamp: time.Now(),
	})
}

// GetTags lists the distinct tags
// @Summary List blog tags
// @Tags blog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string} "Tags retrieved successfully"
// @Router /blog/tags [get]
func (bc *BlogController) GetTags(c *gin.Context) {
	c.JSON(http.StatusOK, dto.APIResponse{
		Data:      bc.blogService.Tags(c.Request.Context()),
		Timestamp: time.Now(),
	})
}

// GetCategories lists the categories in the request locale
// @Summary List blog categories
// @Tags blog
// @Produce json
// @Param locale query string false "Locale" Enums(en, nl)
// @Success 200 {object} dto.APIResponse{data=dto.BlogCategoriesResponse} "Categories retrieved successfully"
// @Router /blog/categories [get]
func (bc *BlogController) GetCategories(c *gin.Context) {
	locale := middleware.GetLocale(c)
	c.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.BlogCategoriesResponse{
			Locale:     locale,
			Categories: bc.blogService.Categories(c.Request.Context(), locale),
		},
		Timestamp: time.Now(),
	})
}
