package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axellelanca/linkbio/internal/services"
)

// OverviewHandler returns the account-wide analytics summary. The response
// shape depends on the caller's tier: FREE gets the basic overview, PRO with
// advancedAnalytics gets the extended one.
func OverviewHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := analyticsService.GetOverview(currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}

// LinkAnalyticsHandler returns analytics for one owned link, tier-gated the
// same way as the overview.
func LinkAnalyticsHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		analytics, err := analyticsService.GetLinkAnalytics(id, currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, analytics)
	}
}
