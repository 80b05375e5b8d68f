package dto

import (
	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

// BlogFilterRequest holds the query parameters of the blog list.
// Category is compared in the request locale.
type BlogFilterRequest struct {
	Tag      string `form:"tag"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	Size     int    `form:"size,default=10" binding:"min=1,max=100"`
}

// BlogListResponse represents one page of localized posts
type BlogListResponse struct {
	Locale     i18n.Locale                `json:"locale" example:"en"`
	Posts      []models.LocalizedBlogPost `json:"posts"`
	Pagination PaginationInfo             `json:"pagination"`
}

// BlogCategoriesResponse lists the categories resolved for a locale
type BlogCategoriesResponse struct {
	Locale     i18n.Locale `json:"locale" example:"nl"`
	Categories []string    `json:"categories"`
}
