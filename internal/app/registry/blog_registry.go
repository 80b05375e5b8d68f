package registry

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

// BlogDateLayout is the layout of BlogPost.Date
const BlogDateLayout = "2006-01-02"

// BlogRegistry is the canonical, date-sorted list of blog posts
type BlogRegistry struct {
	posts []*models.BlogPost
}

// NewBlogRegistry validates posts and sorts them newest first. Posts with
// the same date keep their input order. Nil entries are dropped.
func NewBlogRegistry(posts []*models.BlogPost) (*BlogRegistry, error) {
	type dated struct {
		post *models.BlogPost
		date time.Time
	}

	var errs []error
	seen := make(map[string]bool, len(posts))
	items := make([]dated, 0, len(posts))

	for _, p := range posts {
		if p == nil {
			continue
		}
		if err := validatePost(p); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate blog post id %q", apperrors.ErrInvalidContent, p.ID))
			continue
		}
		seen[p.ID] = true

		date, err := time.Parse(BlogDateLayout, p.Date)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: post %q has malformed date %q", apperrors.ErrInvalidContent, p.ID, p.Date))
			continue
		}
		items = append(items, dated{post: p, date: date})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].date.After(items[j].date)
	})

	r := &BlogRegistry{posts: make([]*models.BlogPost, len(items))}
	for i, item := range items {
		r.posts[i] = item.post
	}
	return r, nil
}

// validatePost enforces that every localized field has an English variant
func validatePost(p *models.BlogPost) error {
	if p.ID == "" {
		return fmt.Errorf("%w: blog post without id", apperrors.ErrInvalidContent)
	}

	required := map[string]i18n.LocalizedText{
		"title":        p.Title,
		"description":  p.Description,
		"excerpt":      p.Excerpt,
		"category":     p.Category,
		"introduction": p.Content.Introduction,
		"conclusion":   p.Content.Conclusion,
	}
	for i, s := range p.Content.Sections {
		required[fmt.Sprintf("sections[%d].title", i)] = s.Title
		required[fmt.Sprintf("sections[%d].content", i)] = s.Content
	}

	var missing []string
	for field, text := range required {
		if text.EN == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: post %q is missing english text for %v", apperrors.ErrInvalidContent, p.ID, missing)
	}
	return nil
}

// GetBlogPost returns the post with the given id
func (r *BlogRegistry) GetBlogPost(id string) (models.BlogPost, bool) {
	for _, p := range r.posts {
		if p.ID == id {
			return clonePost(p), true
		}
	}
	return models.BlogPost{}, false
}

// GetAllBlogPosts returns every post, newest first
func (r *BlogRegistry) GetAllBlogPosts() []models.BlogPost {
	return r.filter(func(*models.BlogPost) bool { return true })
}

// GetBlogPostsByTag returns the posts tagged with tag (exact, case-sensitive)
func (r *BlogRegistry) GetBlogPostsByTag(tag string) []models.BlogPost {
	return r.filter(func(p *models.BlogPost) bool { return p.HasTag(tag) })
}

// GetBlogPostsByCategory returns the posts whose category, resolved for
// locale, equals category.
func (r *BlogRegistry) GetBlogPostsByCategory(category string, locale i18n.Locale) []models.BlogPost {
	return r.filter(func(p *models.BlogPost) bool {
		return p.Category.Resolve(locale) == category
	})
}

// Tags returns the distinct tags, sorted
func (r *BlogRegistry) Tags() []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range r.posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// Categories returns the distinct categories resolved for locale, sorted
func (r *BlogRegistry) Categories(locale i18n.Locale) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range r.posts {
		c := p.Category.Resolve(locale)
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories
}

// Len returns the number of posts
func (r *BlogRegistry) Len() int {
	return len(r.posts)
}

func (r *BlogRegistry) filter(keep func(*models.BlogPost) bool) []models.BlogPost {
	out := []models.BlogPost{}
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	return out
}

// GetLocalizedBlogPost projects post onto a single locale. Every localized
// field resolves to locale with English fallback; structure is preserved.
func GetLocalizedBlogPost(post models.BlogPost, locale i18n.Locale) models.LocalizedBlogPost {
	if !locale.IsSupported() {
		locale = i18n.DefaultLocale
	}

	sections := make([]models.LocalizedSection, 0, len(post.Content.Sections))
	for _, s := range post.Content.Sections {
		sections = append(sections, models.LocalizedSection{
			Title:   s.Title.Resolve(locale),
			Content: s.Content.Resolve(locale),
			Code:    cloneCode(s.Code),
			Image:   s.Image,
		})
	}

	return models.LocalizedBlogPost{
		ID:          post.ID,
		Locale:      locale,
		Title:       post.Title.Resolve(locale),
		Description: post.Description.Resolve(locale),
		Date:        post.Date,
		Author:      post.Author,
		Tags:        cloneStrings(post.Tags),
		Image:       post.Image,
		Excerpt:     post.Excerpt.Resolve(locale),
		Category:    post.Category.Resolve(locale),
		ReadTime:    post.ReadTime,
		Content: models.LocalizedContent{
			Introduction: post.Content.Introduction.Resolve(locale),
			Sections:     sections,
			Conclusion:   post.Content.Conclusion.Resolve(locale),
		},
	}
}

func clonePost(p *models.BlogPost) models.BlogPost {
	out := *p
	out.Tags = cloneStrings(p.Tags)
	out.Content.Sections = make([]models.BlogSection, len(p.Content.Sections))
	for i, s := range p.Content.Sections {
		s.Code = cloneCode(s.Code)
		out.Content.Sections[i] = s
	}
	return out
}

func cloneCode(c *models.CodeSnippet) *models.CodeSnippet {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
