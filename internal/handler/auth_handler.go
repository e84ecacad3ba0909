package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/middleware"
	"github.com/nexthub/intranet-backend/internal/service"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles identity-provider token exchange and session management.
type AuthHandler struct {
	service      *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie should be true
// everywhere except local development over plain HTTP.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      authService,
		secureCookie: secureCookie,
	}
}

// ExchangeRequest carries the identity-provider token to trade for a portal
// session.
type ExchangeRequest struct {
	Token string `json:"token" binding:"required"`
}

// Exchange handles POST /api/auth/exchange
// The refresh token goes into an httpOnly cookie; the body carries only the
// access token and user info.
func (h *AuthHandler) Exchange(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session, err := h.service.Exchange(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid identity provider token"})
		return
	}

	h.setRefreshCookie(c, session.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"access_token": session.AccessToken,
		"user": gin.H{
			"user_id":  session.UserID,
			"nickname": session.Nickname,
			"level":    session.Level,
		},
	})
}

// Refresh handles POST /api/auth/refresh
// The refresh token is read from the httpOnly cookie, with a body fallback
// for non-browser clients.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	session, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	h.setRefreshCookie(c, session.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"access_token": session.AccessToken})
}

// Logout handles POST /api/auth/logout
// Always answers success: logging out with an expired or garbage token still
// leaves the client logged out.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), bearerToken(c))
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

// Me handles GET /api/auth/me (requires JWT)
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":  middleware.GetUserID(c),
		"nickname": middleware.GetNickname(c),
		"level":    middleware.GetUserLevel(c),
	})
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, 7*24*60*60, "/api/auth", "", h.secureCookie, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/auth", "", h.secureCookie, true)
}
