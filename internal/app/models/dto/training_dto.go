package dto

import (
	"github.com/cloudevolvers/catalog/internal/app/models"
)

// Course content formats
const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"
)

// TrainingFilterRequest holds the query parameters of the training list
type TrainingFilterRequest struct {
	Category string `form:"category"`
	Featured bool   `form:"featured"`
	Query    string `form:"q"`
	Tag      string `form:"tag"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	Size     int    `form:"size,default=10" binding:"min=1,max=100"`
}

// TrainingContentRequest selects the representation of a course body
type TrainingContentRequest struct {
	Format string `form:"format,default=html" binding:"oneof=html markdown"`
}

// TrainingResponse is a course with its effective price
type TrainingResponse struct {
	models.CourseMetadata
	EffectivePrice *models.EffectivePrice `json:"effectivePrice,omitempty"`
}

// TrainingListResponse represents one page of trainings
type TrainingListResponse struct {
	Trainings  []models.CourseMetadata `json:"trainings"`
	Pagination PaginationInfo          `json:"pagination"`
}

// TrainingContentResponse is the body of a course in the requested format
type TrainingContentResponse struct {
	Slug    string           `json:"slug" example:"azure-fundamentals"`
	Format  string           `json:"format" example:"html" enums:"html,markdown"`
	Body    string           `json:"body"`
	Outline []models.Heading `json:"outline"`
}
