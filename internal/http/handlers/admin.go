package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/stats
func (h *Handlers) AdminStats(c *gin.Context) {
	stats, err := h.Stats.AdminStats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /api/admin/bookings/:id/status
func (h *Handlers) AdminUpdateBookingStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.bookings(c).UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated",
		"booking": b,
	})
}
