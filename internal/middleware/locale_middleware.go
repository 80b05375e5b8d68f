package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

const localeKey = "locale"

// Locale resolves the request locale from ?locale=, then ?lang=, then the
// Accept-Language header, then fallback.
func Locale(fallback i18n.Locale) gin.HandlerFunc {
	if !fallback.IsSupported() {
		fallback = i18n.DefaultLocale
	}
	return func(c *gin.Context) {
		locale := resolveLocale(c, fallback)
		c.Set(localeKey, locale)
		c.Header("Content-Language", locale.String())
		c.Next()
	}
}

func resolveLocale(c *gin.Context, fallback i18n.Locale) i18n.Locale {
	for _, param := range []string{"locale", "lang"} {
		if v := c.Query(param); v != "" {
			return i18n.ParseLocale(v)
		}
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		return i18n.Negotiate(header)
	}
	return fallback
}

// GetLocale returns the locale stored by Locale, or English
func GetLocale(c *gin.Context) i18n.Locale {
	if v, ok := c.Get(localeKey); ok {
		if l, ok := v.(i18n.Locale); ok {
			return l
		}
	}
	return i18n.DefaultLocale
}
