package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/services"
)

// CreateLinkHandler adds a link to the caller's profile.
func CreateLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateLinkInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		link, err := linkService.Create(currentUser(c).ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

// ListLinksHandler returns every link of the caller's profile in display
// order.
func ListLinksHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		links, err := linkService.ListMine(currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

// GetLinkHandler returns one owned link.
func GetLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		link, err := linkService.Get(id, currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

// UpdateLinkHandler applies a partial update to an owned link.
func UpdateLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var in services.UpdateLinkInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		link, err := linkService.Update(id, currentUser(c).ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

// ReorderLinksHandler rewrites the display order of the caller's links as a
// single all-or-nothing batch.
func ReorderLinksHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ReorderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		links, err := linkService.Reorder(currentUser(c).ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

// DeleteLinkHandler soft-deletes an owned link.
func DeleteLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := linkService.Deactivate(id, currentUser(c).ID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HardDeleteLinkHandler permanently deletes an owned link and its click
// history.
func HardDeleteLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := linkService.HardDelete(id, currentUser(c).ID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ClickRedirectHandler is the public click-through path: it resolves an
// active link, bumps its counter, queues the click event for the workers and
// redirects the visitor to the target URL.
func ClickRedirectHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}

		link, err := linkService.TrackClick(id)
		if err != nil {
			respondError(c, err)
			return
		}

		event := models.ClickEvent{
			LinkID:    link.ID,
			Timestamp: time.Now(),
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			Referer:   c.GetHeader("Referer"),
		}

		// Non-blocking enqueue: a full buffer costs us an analytics event,
		// never the visitor's redirect.
		select {
		case ClickEventsChannel <- event:
		default:
			log.Printf("WARNING: ClickEventsChannel is full, dropping click event for link %d", link.ID)
		}

		c.Redirect(http.StatusFound, link.URL)
	}
}
