// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/rental-backend/internal/config"
)

// exposedHeaders are the response headers browser clients may read
var exposedHeaders = strings.Join([]string{
	RequestIDHeader,
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
	"Content-Disposition",
}, ", ")

// originList matches request origins against the configured allow-list.
// Entries are exact origins, "*", or "*.domain" for any subdomain of domain.
type originList struct {
	any      bool
	exact    map[string]bool
	suffixes []string
}

func newOriginList(allowed []string) originList {
	list := originList{exact: make(map[string]bool, len(allowed))}
	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "*":
			list.any = true
		case strings.HasPrefix(entry, "*."):
			// Keep the dot so "*.rent.example.com" does not match "evilrent.example.com"
			list.suffixes = append(list.suffixes, strings.TrimPrefix(entry, "*"))
		case entry != "":
			list.exact[entry] = true
		}
	}
	return list
}

func (l originList) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if l.any || l.exact[origin] {
		return true
	}
	for _, suffix := range l.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// CORS answers browser preflights and echoes allowed origins. The allow-list
// is compiled once when the middleware is built.
func CORS(cfg *config.Config) gin.HandlerFunc {
	origins := newOriginList(cfg.Security.CORSAllowedOrigins)
	methods := strings.Join(cfg.Security.CORSAllowedMethods, ", ")
	headers := strings.Join(append(append([]string(nil), cfg.Security.CORSAllowedHeaders...), RequestIDHeader), ", ")

	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")

		if origin := c.GetHeader("Origin"); origins.allows(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Expose-Headers", exposedHeaders)
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Max-Age", "86400")
		c.AbortWithStatus(http.StatusNoContent)
	}
}
