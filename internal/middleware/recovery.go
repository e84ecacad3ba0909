package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/pkg/logger"
)

// Recovery converts panics into a generic 500 JSON body. The panic value and
// stack stay in the server log; the client never sees internal details.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		logger.GetLogger().Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	})
}
