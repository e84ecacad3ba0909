package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexthub/intranet-backend/internal/handler"
	"github.com/nexthub/intranet-backend/internal/middleware"
	"github.com/nexthub/intranet-backend/internal/service"
	"github.com/nexthub/intranet-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	guideHandler *handler.GuideHandler,
	directoryHandler *handler.DirectoryHandler,
	eventHandler *handler.EventHandler,
	authHandler *handler.AuthHandler,
	jwtManager *jwt.Manager,
	authService *service.AuthService,
) {
	api := router.Group("/api")

	// Authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/exchange", authHandler.Exchange)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.JWTAuth(jwtManager, authService), authHandler.Me)
	gateMethods(auth, "/exchange", "POST")
	gateMethods(auth, "/refresh", "POST")
	gateMethods(auth, "/logout", "POST")
	gateMethods(auth, "/me", "GET")

	// Knowledge-base guides (public, read-only). Optional auth so request
	// logs carry the employee id when a session token is present.
	guides := api.Group("/guides", middleware.OptionalJWTAuth(jwtManager))
	guides.GET("", guideHandler.ListGuides)
	guides.GET("/:slug", guideHandler.GetGuide)
	gateMethods(guides, "", "GET")
	gateMethods(guides, "/:slug", "GET")

	// Org directory (public, read-only)
	directory := api.Group("/directory", middleware.OptionalJWTAuth(jwtManager))
	directory.GET("/positions", directoryHandler.ListPositions)
	directory.GET("/units", directoryHandler.ListUnits)
	gateMethods(directory, "/positions", "GET")
	gateMethods(directory, "/units", "GET")

	// Community event feeds (public, read-only)
	communities := api.Group("/communities", middleware.OptionalJWTAuth(jwtManager))
	communities.GET("/:communityId/events", eventHandler.ListCommunityEvents)
	gateMethods(communities, "/:communityId/events", "GET")

	// Content administration (admin JWT required)
	admin := api.Group("/admin", middleware.JWTAuth(jwtManager, authService), middleware.RequireAdmin())
	admin.POST("/guides", guideHandler.UpsertGuide)
	admin.PATCH("/guides/:slug/status", guideHandler.UpdateGuideStatus)
	admin.DELETE("/guides/:slug", guideHandler.DeleteGuide)
	admin.POST("/events", eventHandler.UpsertEvent)
}

// allMethods is every method a gate answers 405 for when not explicitly allowed.
var allMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete,
}

// gateMethods registers a 405 handler with an Allow header on every method
// the route does not serve. Gin's NoMethod hook is global and loses the
// per-route Allow set, so the gates are explicit.
func gateMethods(group *gin.RouterGroup, path string, allowed ...string) {
	allow := strings.Join(allowed, ", ")
	permitted := make(map[string]bool, len(allowed))
	for _, m := range allowed {
		permitted[m] = true
	}

	reject := func(c *gin.Context) {
		c.Header("Allow", allow)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	}
	for _, method := range allMethods {
		if !permitted[method] {
			group.Handle(method, path, reject)
		}
	}
}
