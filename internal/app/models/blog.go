package models

import "github.com/cloudevolvers/catalog/internal/pkg/i18n"

// CodeSnippet is a source listing embedded in a blog section
type CodeSnippet struct {
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
}

// BlogSection is one titled part of a post body
type BlogSection struct {
	Title   i18n.LocalizedText `json:"title" yaml:"title"`
	Content i18n.LocalizedText `json:"content" yaml:"content"`
	Code    *CodeSnippet       `json:"code,omitempty" yaml:"code,omitempty"`
	Image   string             `json:"image,omitempty" yaml:"image,omitempty"`
}

// BlogContent is the structured post body
type BlogContent struct {
	Introduction i18n.LocalizedText `json:"introduction" yaml:"introduction"`
	Sections     []BlogSection      `json:"sections" yaml:"sections"`
	Conclusion   i18n.LocalizedText `json:"conclusion" yaml:"conclusion"`
}

// BlogPost is a bilingual blog article. Date is an ISO date (YYYY-MM-DD).
type BlogPost struct {
	ID          string             `json:"id" yaml:"id"`
	Title       i18n.LocalizedText `json:"title" yaml:"title"`
	Description i18n.LocalizedText `json:"description" yaml:"description"`
	Date        string             `json:"date" yaml:"date"`
	Author      string             `json:"author" yaml:"author"`
	Tags        []string           `json:"tags" yaml:"tags"`
	Image       string             `json:"image" yaml:"image"`
	Excerpt     i18n.LocalizedText `json:"excerpt" yaml:"excerpt"`
	Category    i18n.LocalizedText `json:"category" yaml:"category"`
	ReadTime    int                `json:"readTime" yaml:"readTime"`
	Content     BlogContent        `json:"content" yaml:"content"`
}

// HasTag reports whether the post is tagged with tag (case-sensitive)
func (p *BlogPost) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LocalizedSection is a BlogSection resolved to one locale
type LocalizedSection struct {
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Code    *CodeSnippet `json:"code,omitempty"`
	Image   string       `json:"image,omitempty"`
}

// LocalizedContent is a BlogContent resolved to one locale
type LocalizedContent struct {
	Introduction string             `json:"introduction"`
	Sections     []LocalizedSection `json:"sections"`
	Conclusion   string             `json:"conclusion"`
}

// LocalizedBlogPost is the single-locale view of a BlogPost
type LocalizedBlogPost struct {
	ID          string           `json:"id"`
	Locale      i18n.Locale      `json:"locale"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Author      string           `json:"author"`
	Tags        []string         `json:"tags"`
	Image       string           `json:"image"`
	Excerpt     string           `json:"excerpt"`
	Category    string           `json:"category"`
	ReadTime    int              `json:"readTime"`
	Content     LocalizedContent `json:"content"`
}
