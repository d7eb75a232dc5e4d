package middleware

import "github.com/gin-gonic/gin"

// DefaultContentSecurityPolicy allows the bundled page and its inline script only.
const DefaultContentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'"

// SecurityHeaders applies response headers that stop framing and MIME sniffing.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", DefaultContentSecurityPolicy)
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
