package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/common"
	"github.com/nexthub/intranet-backend/internal/service"
	"github.com/nexthub/intranet-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware. authService may be nil; with it set,
// tokens revoked by logout are rejected even before expiry.
func JWTAuth(jwtManager *jwt.Manager, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 4. Reject tokens revoked by logout
		if authService != nil && authService.IsTokenDenied(c.Request.Context(), claims.ID) {
			common.ErrorResponse(c, 401, "Token revoked", nil)
			c.Abort()
			return
		}

		// 5. Store user info in context
		c.Set("userID", claims.UserID)
		c.Set("nickname", claims.Nickname)
		c.Set("level", claims.Level)

		c.Next()
	}
}

// OptionalJWTAuth populates user info when a valid token is present but never
// rejects the request. Used on public content routes that personalize when
// logged in.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := jwtManager.VerifyToken(parts[1]); err == nil {
				c.Set("userID", claims.UserID)
				c.Set("nickname", claims.Nickname)
				c.Set("level", claims.Level)
			}
		}
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}

// GetUserLevel extracts user level from context
func GetUserLevel(c *gin.Context) int {
	level, exists := c.Get("level")
	if !exists {
		return 0
	}
	if lvl, ok := level.(int); ok {
		return lvl
	}
	return 0
}

// GetNickname extracts nickname from context
func GetNickname(c *gin.Context) string {
	nickname, exists := c.Get("nickname")
	if !exists {
		return ""
	}
	if str, ok := nickname.(string); ok {
		return str
	}
	return ""
}
