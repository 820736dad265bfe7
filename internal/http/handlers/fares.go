package handlers

import (
	"net/http"
	"strings"

	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/cities
func (h *Handlers) Cities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cities": h.Fares.CityNames()})
}

// GET /api/routes
func (h *Handlers) FareRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"routes": h.Fares.Routes()})
}

type quoteRequest struct {
	StartsFrom  string `json:"startsFrom"`
	Destination string `json:"destination"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
}

// POST /api/quote
// Unknown routes price at 0; the caller decides whether that blocks submit.
func (h *Handlers) Quote(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	from := strings.TrimSpace(req.StartsFrom)
	to := strings.TrimSpace(req.Destination)
	c.JSON(http.StatusOK, gin.H{
		"startsFrom":  from,
		"destination": to,
		"basePrice":   h.Fares.BasePrice(from, to),
		"totalPrice":  h.Fares.ComputeTotal(from, to, req.Adults, req.Children),
		"available":   h.Fares.HasRoute(from, to),
	})
}

// POST /api/manifest
// Reshapes the submitted passengers to the adult/child counts, keeping
// entered data by position, and reprices the draft.
func (h *Handlers) Manifest(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	draft := services.DraftFromRequest(h.Fares, req)
	c.JSON(http.StatusOK, gin.H{
		"adults":     draft.Adults,
		"children":   draft.Children,
		"passengers": draft.Passengers,
		"totalPrice": draft.TotalPrice,
	})
}

// POST /api/validate
// Runs the submit-time checks without storing anything.
func (h *Handlers) Validate(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.StartsFrom = strings.TrimSpace(req.StartsFrom)
	req.Destination = strings.TrimSpace(req.Destination)
	violations := services.ValidateBookingRequest(req, h.Fares, h.now(), h.Policy)
	if violations == nil {
		violations = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":      len(violations) == 0,
		"violations": violations,
		"totalPrice": h.Fares.ComputeTotal(req.StartsFrom, req.Destination, req.Adults, req.Children),
	})
}
