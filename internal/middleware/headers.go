package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ContextLangKey = "lang"

// SecureHeader sets the standard hardening headers on every response.
func SecureHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// Language reads the optional X-Lang header into the request context.
// Handlers fall back to the user's preferred language when absent.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		if lang := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Lang"))); lang != "" {
			c.Set(ContextLangKey, lang)
		}
		c.Next()
	}
}

// RequestLang resolves the response language: X-Lang header first, then the
// given fallback, then "en".
func RequestLang(c *gin.Context, fallback string) string {
	if v, exists := c.Get(ContextLangKey); exists {
		if lang, ok := v.(string); ok && lang != "" {
			return lang
		}
	}
	if fallback != "" {
		return strings.ToLower(fallback)
	}
	return "en"
}
