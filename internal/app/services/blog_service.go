package services

import (
	"context"
	"fmt"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/app/registry"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

// BlogQuery narrows the post list. Category is matched in the request locale.
type BlogQuery struct {
	Tag      string
	Category string
}

// BlogService defines the read operations of the blog
type BlogService interface {
	ListPosts(ctx context.Context, query BlogQuery, locale i18n.Locale) []models.LocalizedBlogPost
	GetPost(ctx context.Context, id string, locale i18n.Locale) (*models.LocalizedBlogPost, error)
	Tags(ctx context.Context) []string
	Categories(ctx context.Context, locale i18n.Locale) []string
	Count() int
}

type blogServiceImpl struct {
	posts *registry.BlogRegistry
}

// NewBlogService creates a new blog service instance
func NewBlogService(posts *registry.BlogRegistry) BlogService {
	return &blogServiceImpl{posts: posts}
}

func (s *blogServiceImpl) ListPosts(_ context.Context, query BlogQuery, locale i18n.Locale) []models.LocalizedBlogPost {
	var posts []models.BlogPost
	switch {
	case query.Category != "":
		posts = s.posts.GetBlogPostsByCategory(query.Category, locale)
	case query.Tag != "":
		posts = s.posts.GetBlogPostsByTag(query.Tag)
	default:
		posts = s.posts.GetAllBlogPosts()
	}

	out := make([]models.LocalizedBlogPost, 0, len(posts))
	for _, p := range posts {
		if query.Tag != "" && !p.HasTag(query.Tag) {
			continue
		}
		out = append(out, registry.GetLocalizedBlogPost(p, locale))
	}
	return out
}

func (s *blogServiceImpl) GetPost(_ context.Context, id string, locale i18n.Locale) (*models.LocalizedBlogPost, error) {
	post, ok := s.posts.GetBlogPost(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrBlogPostNotFound, id)
	}
	localized := registry.GetLocalizedBlogPost(post, locale)
	return &localized, nil
}

func (s *blogServiceImpl) Tags(context.Context) []string {
	return s.posts.Tags()
}

func (s *blogServiceImpl) Categories(_ context.Context, locale i18n.Locale) []string {
	return s.posts.Categories(locale)
}

func (s *blogServiceImpl) Count() int {
	return s.posts.Len()
}
