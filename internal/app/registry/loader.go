package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudevolvers/catalog/internal/app/models"
	"github.com/cloudevolvers/catalog/internal/pkg/apperrors"
	"github.com/cloudevolvers/catalog/internal/pkg/validation"
)

const (
	catalogFile   = "catalog.yaml"
	coursesDir    = "courses"
	blogIndexFile = "blog/index.yaml"
	blogDir       = "blog"
)

type catalogIndex struct {
	Courses []string `yaml:"courses"`
}

type blogIndex struct {
	Posts []string `yaml:"posts"`
}

// LoadTrainings builds the training registry from a content tree.
// Metadata is decoded eagerly; course bodies are read lazily on first use.
func LoadTrainings(fsys fs.FS) (*TrainingRegistry, error) {
	var index catalogIndex
	if err := decodeYAML(fsys, catalogFile, &index); err != nil {
		return nil, err
	}

	registrations := make([]Registration, 0, len(index.Courses))
	for _, key := range index.Courses {
		if !validation.IsSlug(key) {
			return nil, fmt.Errorf("%w: catalog entry %q is not a valid slug", apperrors.ErrInvalidContent, key)
		}
		var meta models.CourseMetadata
		if err := decodeYAML(fsys, path.Join(coursesDir, key+".yaml"), &meta); err != nil {
			return nil, err
		}
		if !meta.Difficulty.IsValid() {
			return nil, fmt.Errorf("%w: course %q has unknown difficulty %q", apperrors.ErrInvalidContent, key, meta.Difficulty)
		}
		registrations = append(registrations, Registration{Key: key, Metadata: &meta})
	}

	bodies, err := fs.Glob(fsys, path.Join(coursesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list course content: %w", err)
	}
	content := make(map[string]ContentLoader, len(bodies))
	for _, name := range bodies {
		name := name
		slug := strings.TrimSuffix(path.Base(name), ".html")
		content[slug] = Lazy(slug, func() ([]byte, error) {
			return fs.ReadFile(fsys, name)
		})
	}

	return NewTrainingRegistry(content, registrations), nil
}

// LoadBlog builds the blog registry from the posts listed in the blog index
func LoadBlog(fsys fs.FS) (*BlogRegistry, error) {
	var index blogIndex
	if err := decodeYAML(fsys, blogIndexFile, &index); err != nil {
		return nil, err
	}

	posts := make([]*models.BlogPost, 0, len(index.Posts))
	for _, name := range index.Posts {
		if !validation.IsSlug(name) {
			return nil, fmt.Errorf("%w: blog index entry %q is not a valid id", apperrors.ErrInvalidContent, name)
		}
		var post models.BlogPost
		if err := decodeYAML(fsys, path.Join(blogDir, name+".yaml"), &post); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	return NewBlogRegistry(posts)
}

func decodeYAML(fsys fs.FS, name string, out interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", apperrors.ErrInvalidContent, name)
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", apperrors.ErrInvalidContent, name, err)
	}
	return nil
}
