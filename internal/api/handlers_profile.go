package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axellelanca/linkbio/internal/services"
)

// CreateProfileHandler creates the caller's public profile.
func CreateProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateProfileInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		profile, err := profileService.Create(currentUser(c).ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, profile)
	}
}

// ListProfilesHandler returns every active profile with its active links.
func ListProfilesHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles, err := profileService.List()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profiles)
	}
}

// MyProfileHandler returns the caller's own profile for the dashboard,
// including soft-deleted links.
func MyProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profileService.GetMine(currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// ProfileByUsernameHandler serves the public page fetch. Every call
// increments the profile's view counter; deduplication, if any, is the
// presentation layer's problem.
func ProfileByUsernameHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profileService.GetByUsername(c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// ProfileByIDHandler returns a profile by id without touching the view
// counter.
func ProfileByIDHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		profile, err := profileService.GetByID(id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateProfileHandler applies a partial update to an owned profile.
func UpdateProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var in services.UpdateProfileInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		profile, err := profileService.Update(id, currentUser(c).ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// DeleteProfileHandler soft-deletes an owned profile.
func DeleteProfileHandler(profileService *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := profileService.Deactivate(id, currentUser(c).ID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
