package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Subscribe to the live incident feed
// @Description Server-sent events stream. Each event carries the full incident snapshot, newest first, so the client never has to merge deltas.
// @Tags Incidents
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /feed/stream [get]
func (h *Handler) streamIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "streamIncidents")

	id, ch := h.feedStream.Subscribe()
	defer h.feedStream.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Первое событие - текущее состояние, дальше только по изменениям
	snapshot, err := h.feedStream.Snapshot(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load initial feed snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.SSEvent("snapshot", ModelsToIncidentResponses(snapshot))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case incidents, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", ModelsToIncidentResponses(incidents))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// @Summary Subscribe to emergency alerts
// @Description Server-sent events stream of administrator alerts. Alerts are ephemeral: subscribers connected at publish time receive them, nobody else ever will.
// @Tags Alerts
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} NotificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/stream [get]
func (h *Handler) streamAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "streamAlerts")

	ch, err := h.alertService.Stream(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to subscribe to alert stream")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case notification, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("alert", ModelToNotificationResponse(notification))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
