package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Lowercase words joined by single hyphens, as used by course slugs and post ids
	SlugPattern = `^[a-z0-9]+(?:-[a-z0-9]+)*$`

	// ISO 4217 style currency code
	CurrencyPattern = `^[A-Z]{3}$`

	SlugMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Slug     *regexp.Regexp
	Currency *regexp.Regexp
}{
	Slug:     regexp.MustCompile(SlugPattern),
	Currency: regexp.MustCompile(CurrencyPattern),
}

// StringValidation checks one required string value against a set of rules
type StringValidation struct {
	Value   string
	MaxLen  int
	Pattern *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// IsSlug reports whether s is a well-formed course slug or post id
func IsSlug(s string) bool {
	return NewStringValidation(s).
		WithMaxLength(SlugMaxLength).
		WithPattern(CompiledPatterns.Slug).
		Validate()
}

// IsCurrency reports whether s is a three letter uppercase currency code
func IsCurrency(s string) bool {
	return NewStringValidation(s).WithPattern(CompiledPatterns.Currency).Validate()
}
