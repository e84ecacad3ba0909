package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets baseline response headers. The portal serves JSON to a
// first-party frontend, so the policy is deny-everything for framing and
// sniffing.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
