// Package api wires the HTTP surface of the application: route registration,
// request handlers, authentication middleware and the per-IP rate limit.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/services"
)

// ClickEventsChannel is the global channel used to hand click events to the
// worker pool. The redirect handler enqueues non-blocking so click tracking
// never delays a visitor's redirect.
var ClickEventsChannel chan models.ClickEvent

// CookieConfig carries the attributes applied to both auth cookies.
type CookieConfig struct {
	Domain string
	Secure bool
}

// SetupRoutes configures all Gin API routes and injects the services.
// Public routes: registration/login/refresh, profile reads, and the click
// redirect. Everything else sits behind the auth middleware.
func SetupRoutes(
	router *gin.Engine,
	authService *services.AuthService,
	profileService *services.ProfileService,
	linkService *services.LinkService,
	analyticsService *services.AnalyticsService,
	cookies CookieConfig,
	bufferSize int,
) {
	if ClickEventsChannel == nil {
		ClickEventsChannel = make(chan models.ClickEvent, bufferSize)
	}

	// Health check route, used by load balancers and monitoring.
	router.GET("/health", HealthCheckHandler)

	authRequired := AuthMiddleware(authService)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", RegisterHandler(authService, cookies))
			auth.POST("/login", LoginHandler(authService, cookies))
			auth.POST("/refresh", RefreshHandler(authService, cookies))
			auth.POST("/logout", authRequired, LogoutHandler(authService, cookies))
			auth.GET("/me", authRequired, MeHandler())
		}

		profiles := api.Group("/profiles")
		{
			profiles.POST("", authRequired, CreateProfileHandler(profileService))
			profiles.GET("", ListProfilesHandler(profileService))
			profiles.GET("/me", authRequired, MyProfileHandler(profileService))
			// Public page fetch; increments the view counter as a side
			// effect.
			profiles.GET("/username/:username", ProfileByUsernameHandler(profileService))
			profiles.GET("/:id", ProfileByIDHandler(profileService))
			profiles.PATCH("/:id", authRequired, UpdateProfileHandler(profileService))
			profiles.DELETE("/:id", authRequired, DeleteProfileHandler(profileService))
		}

		links := api.Group("/links")
		{
			links.POST("", authRequired, CreateLinkHandler(linkService))
			links.GET("", authRequired, ListLinksHandler(linkService))
			links.POST("/reorder", authRequired, ReorderLinksHandler(linkService))
			links.GET("/:id", authRequired, GetLinkHandler(linkService))
			links.PATCH("/:id", authRequired, UpdateLinkHandler(linkService))
			links.DELETE("/:id", authRequired, DeleteLinkHandler(linkService))
			links.DELETE("/:id/hard", authRequired, HardDeleteLinkHandler(linkService))
			// Public click tracking + redirect; this is the URL placed on
			// profile pages.
			links.GET("/:id/click", ClickRedirectHandler(linkService))
		}

		analytics := api.Group("/analytics", authRequired)
		{
			analytics.GET("/overview", OverviewHandler(analyticsService))
			analytics.GET("/link/:id", LinkAnalyticsHandler(analyticsService))
		}
	}
}

// HealthCheckHandler handles the /health route to verify service status.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
