package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/common"
	"github.com/nexthub/intranet-backend/internal/service"
)

// RequireAdmin checks that the authenticated user has admin level. Content
// writes and event administration sit behind this.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		level := GetUserLevel(c)
		if level < service.LevelAdmin {
			common.ErrorResponse(c, http.StatusForbidden, "Admin privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
