package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
)

// TrainingQuery narrows the training list. Zero values do not filter.
type TrainingQuery struct {
	Category string
	Featured bool
	Search   string
	// Tag matches exactly, like blog tags
	Tag      string
}

// TrainingService defines the read operations of the course catalog
type TrainingService interface {
	ListTrainings(ctx context.Context, query TrainingQuery) []models.CourseMetadata
	GetTraining(ctx context.Context, slug string) (*models.CourseMetadata, error)
	GetContent(ctx context.Context, slug string) (*registry.CourseContent, error)
	Count() int
}

// trainingServiceImpl implements the TrainingService interface
type trainingServiceImpl struct {
	trainings *registry.TrainingRegistry
}

// NewTrainingService creates a new training service instance
func NewTrainingService(trainings *registry.TrainingRegistry) TrainingService {
	return &trainingServiceImpl{trainings: trainings}
}

// ListTrainings applies every set filter of query, keeping catalog order
func (s *trainingServiceImpl) ListTrainings(_ context.Context, query TrainingQuery) []models.CourseMetadata {
	var result []models.CourseMetadata
	switch {
	case strings.TrimSpace(query.Search) != "":
		result = s.trainings.SearchTrainings(query.Search)
	case query.Featured:
		result = s.trainings.GetFeaturedTrainings()
	case query.Category != "":
		result = s.trainings.GetTrainingsByCategory(query.Category)
	case query.Tag != "":
		result = s.trainings.GetAllTrainings()
	default:
		return s.trainings.GetAllTrainings()
	}

	out := make([]models.CourseMetadata, 0, len(result))
	for _, meta := range result {
		if query.Featured && !meta.Featured {
			continue
		}
		if query.Category != "" && !strings.EqualFold(meta.Category, query.Category) {
			continue
		}
		if query.Tag != "" && !meta.HasTag(query.Tag) {
			continue
		}
		out = append(out, meta)
	}
	return out
}

func (s *trainingServiceImpl) GetTraining(_ context.Context, slug string) (*models.CourseMetadata, error) {
	meta, ok := s.trainings.GetTrainingBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrTrainingNotFound, slug)
	}
	return &meta, nil
}

// GetContent runs the course loader; the body is decoded on first access
func (s *trainingServiceImpl) GetContent(_ context.Context, slug string) (*registry.CourseContent, error) {
	loader := s.trainings.GetTrainingContent(slug)
	if loader == nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrContentNotFound, slug)
	}

	content, err := loader()
	if err != nil {
		return nil, fmt.Errorf("failed to load content of %q: %w", slug, err)
	}
	return content, nil
}

func (s *trainingServiceImpl) Count() int {
	return s.trainings.Len()
}
