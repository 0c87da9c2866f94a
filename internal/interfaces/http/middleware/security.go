// internal/interfaces/http/middleware/security.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// apiSecurityHeaders are set on every response
var apiSecurityHeaders = map[string]string{
	"X-Frame-Options":         "DENY",
	"X-Content-Type-Options":  "nosniff",
	"Referrer-Policy":         "no-referrer",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Server":                  "Rental API",
}

// SecurityHeaders sets the hardening headers and marks API responses as
// uncacheable
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range apiSecurityHeaders {
			c.Header(name, value)
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Cache-Control", "no-store")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}
