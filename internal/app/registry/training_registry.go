package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/render"
)

// CourseContent is the page body of a course
type CourseContent struct {
	Slug string
	HTML string
}

// Outline extracts the section headings of the content
func (c *CourseContent) Outline() ([]models.Heading, error) {
	headings, err := render.Outline(c.HTML)
	if err != nil {
		return nil, err
	}

	out := make([]models.Heading, 0, len(headings))
	for _, h := range headings {
		out = append(out, models.Heading{Level: h.Level, ID: h.ID, Text: h.Text})
	}
	return out, nil
}

// Markdown renders the content as Markdown
func (c *CourseContent) Markdown() (string, error) {
	return render.Markdown(c.HTML)
}

// ContentLoader produces the content of one course. Loaders returned by
// Lazy decode on first use and cache the result.
type ContentLoader func() (*CourseContent, error)

// Lazy wraps read in a ContentLoader that runs read at most once
func Lazy(slug string, read func() ([]byte, error)) ContentLoader {
	load := sync.OnceValues(func() (*CourseContent, error) {
		body, err := read()
		if err != nil {
			return nil, fmt.Errorf("failed to load content for %q: %w", slug, err)
		}
		return &CourseContent{Slug: slug, HTML: string(body)}, nil
	})
	return ContentLoader(load)
}

// Registration is a catalog entry together with the key it was listed under.
// An empty Key means the metadata slug is the key.
type Registration struct {
	Key      string
	Metadata *models.CourseMetadata
}

// Register builds a Registration keyed by the metadata's own slug
func Register(metadata *models.CourseMetadata) Registration {
	if metadata == nil {
		return Registration{}
	}
	return Registration{Key: metadata.Slug, Metadata: metadata}
}

// TrainingRegistry maps course slugs to their content and holds the
// ordered catalog metadata. It is built once and never modified.
type TrainingRegistry struct {
	content   map[string]ContentLoader
	keys      []string
	trainings []*models.CourseMetadata
}

// NewTrainingRegistry creates a registry from a content map and the ordered
// catalog list. Entries without metadata are dropped; order is kept as given.
func NewTrainingRegistry(content map[string]ContentLoader, trainings []Registration) *TrainingRegistry {
	r := &TrainingRegistry{
		content:   make(map[string]ContentLoader, len(content)),
		keys:      make([]string, 0, len(trainings)),
		trainings: make([]*models.CourseMetadata, 0, len(trainings)),
	}
	for slug, loader := range content {
		if loader != nil {
			r.content[slug] = loader
		}
	}
	for _, reg := range trainings {
		if reg.Metadata == nil {
			continue
		}
		key := reg.Key
		if key == "" {
			key = reg.Metadata.Slug
		}
		r.keys = append(r.keys, key)
		r.trainings = append(r.trainings, reg.Metadata)
	}
	return r
}

// GetTrainingContent returns the content loader for slug, or nil if the
// slug has no registered content.
func (r *TrainingRegistry) GetTrainingContent(slug string) ContentLoader {
	loader, ok := r.content[slug]
	if !ok {
		return nil
	}
	return loader
}

// ContentSlugs returns the slugs that have registered content, sorted
func (r *TrainingRegistry) ContentSlugs() []string {
	slugs := make([]string, 0, len(r.content))
	for slug := range r.content {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// GetAllTrainings returns the catalog in display order. Duplicates are
// not removed; see Validate.
func (r *TrainingRegistry) GetAllTrainings() []models.CourseMetadata {
	return r.filter(func(*models.CourseMetadata) bool { return true })
}

// GetTrainingBySlug returns the first catalog entry with the given slug
func (r *TrainingRegistry) GetTrainingBySlug(slug string) (models.CourseMetadata, bool) {
	for _, t := range r.trainings {
		if t.Slug == slug {
			return t.Clone(), true
		}
	}
	return models.CourseMetadata{}, false
}

// GetTrainingsByCategory returns the trainings whose category equals
// category, ignoring case.
func (r *TrainingRegistry) GetTrainingsByCategory(category string) []models.CourseMetadata {
	return r.filter(func(t *models.CourseMetadata) bool {
		return strings.EqualFold(t.Category, category)
	})
}

// GetFeaturedTrainings returns the trainings flagged as featured
func (r *TrainingRegistry) GetFeaturedTrainings() []models.CourseMetadata {
	return r.filter(func(t *models.CourseMetadata) bool { return t.Featured })
}

// SearchTrainings matches query case-insensitively against title,
// description and tags. An empty query matches everything.
func (r *TrainingRegistry) SearchTrainings(query string) []models.CourseMetadata {
	q := strings.ToLower(strings.TrimSpace(query))
	return r.filter(func(t *models.CourseMetadata) bool {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			return true
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

// Categories returns the distinct categories in catalog order
func (r *TrainingRegistry) Categories() []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, t := range r.trainings {
		if !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
	}
	return categories
}

// Len returns the number of catalog entries
func (r *TrainingRegistry) Len() int {
	return len(r.trainings)
}

// Validate checks the consistency of content keys and catalog slugs.
// Every problem is reported; the registry itself is left untouched.
func (r *TrainingRegistry) Validate() error {
	var errs []error

	for i, t := range r.trainings {
		if r.keys[i] != t.Slug {
			errs = append(errs, fmt.Errorf("%w: key %q, slug %q", apperrors.ErrSlugMismatch, r.keys[i], t.Slug))
		}
	}

	counts := make(map[string]int, len(r.trainings))
	for _, t := range r.trainings {
		counts[t.Slug]++
	}
	reported := make(map[string]bool)
	for _, t := range r.trainings {
		if counts[t.Slug] > 1 && !reported[t.Slug] {
			reported[t.Slug] = true
			errs = append(errs, fmt.Errorf("%w: %q appears %d times", apperrors.ErrDuplicateSlug, t.Slug, counts[t.Slug]))
		}
	}

	for _, slug := range r.ContentSlugs() {
		if counts[slug] == 0 {
			errs = append(errs, fmt.Errorf("%w: %q", apperrors.ErrMissingMetadata, slug))
		}
	}

	return errors.Join(errs...)
}

func (r *TrainingRegistry) filter(keep func(*models.CourseMetadata) bool) []models.CourseMetadata {
	out := []models.CourseMetadata{}
	for _, t := range r.trainings {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
