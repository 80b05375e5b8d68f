package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Locale is a supported content language
type Locale string

const (
	// English is the default locale and the fallback for every lookup
	English Locale = "en"
	// Dutch is the secondary site language
	Dutch Locale = "nl"
)

// DefaultLocale is used whenever no supported locale can be determined
const DefaultLocale = English

// supported holds the locales, default first
var supported = []Locale{English, Dutch}

// Supported returns the supported locales, default first
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether l is one of the supported locales
func (l Locale) IsSupported() bool {
	for _, s := range supported {
		if l == s {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer
func (l Locale) String() string {
	return string(l)
}

// ParseLocale maps a language code to a supported locale.
// Region and script subtags are ignored ("nl-BE" is Dutch); anything
// unsupported or unparsable resolves to English.
func ParseLocale(code string) Locale {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLocale
	}

	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLocale
	}
	base, _ := tag.Base()

	l := Locale(base.String())
	if !l.IsSupported() {
		return DefaultLocale
	}
	return l
}

// Negotiate picks the best supported locale from an Accept-Language header value.
// Tags are tried in quality order and match only on an explicit base language,
// so a related language ("af", "fy") never resolves to Dutch.
func Negotiate(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return DefaultLocale
	}

	for _, tag := range tags {
		base, confidence := tag.Base()
		if confidence != language.Exact {
			continue
		}
		if l := Locale(base.String()); l.IsSupported() {
			return l
		}
	}
	return DefaultLocale
}

// LocalizedText holds one string in every supported language.
// EN is mandatory; NL may be empty and then falls back to EN.
type LocalizedText struct {
	EN string `json:"en" yaml:"en"`
	NL string `json:"nl,omitempty" yaml:"nl,omitempty"`
}

// Text builds a LocalizedText from both variants
func Text(en, nl string) LocalizedText {
	return LocalizedText{EN: en, NL: nl}
}

// Resolve returns the variant for locale, falling back to English
func (t LocalizedText) Resolve(locale Locale) string {
	if locale == Dutch && t.NL != "" {
		return t.NL
	}
	return t.EN
}

// IsZero reports whether no variant is set
func (t LocalizedText) IsZero() bool {
	return t.EN == "" && t.NL == ""
}

// UnmarshalYAML accepts both a mapping ({en, nl}) and a bare scalar,
// which is taken as the English variant.
func (t *LocalizedText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.EN = node.Value
		t.NL = ""
		return nil
	}

	var raw struct {
		EN string `yaml:"en"`
		NL string `yaml:"nl"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	t.EN = raw.EN
	t.NL = raw.NL
	return nil
}
