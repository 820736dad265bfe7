package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings (alias /api/book)
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.bookings(c).CreateBooking(c.Request.Context(), session(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Booking successful!",
		"booking_id": b.ID,
		"reference":  b.Reference,
		"booking":    b,
	})
}

// GET /api/my-bookings (alias /api/my_bookings)
func (h *Handlers) MyBookings(c *gin.Context) {
	list, err := h.bookings(c).ListUserBookings(c.Request.Context(), session(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if list == nil {
		list = []models.Booking{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.bookings(c).GetBooking(c.Request.Context(), session(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/reference/:ref
func (h *Handlers) GetBookingByReference(c *gin.Context) {
	ref := strings.ToUpper(strings.TrimSpace(c.Param("ref")))
	b, err := h.bookings(c).GetByReference(c.Request.Context(), session(c), ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PUT|DELETE /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.bookings(c).CancelBooking(c.Request.Context(), session(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking canceled successfully!",
		"booking": b,
	})
}

// POST /api/bookings/:id/pay
func (h *Handlers) PayBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var card models.CardPayment
	if !BindJSONOrError(c, &card) {
		return
	}
	b, err := h.bookings(c).PayBooking(c.Request.Context(), session(c), id, card)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful!",
		"booking": b,
	})
}

// GET /api/bookings/:id/download (alias /download-ticket)
func (h *Handlers) DownloadTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.bookings(c).GetBooking(c.Request.Context(), session(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if b.Status == domain.StatusCancelled {
		RespondDomainError(c, domain.ConflictError{Resource: "booking", Msg: "cancelled bookings have no ticket"})
		return
	}
	pdf, filename, err := h.docs(c).GenerateTicket(b)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to generate ticket", err)
		return
	}
	sendPDF(c, pdf, filename)
}

// GET /api/bookings/:id/receipt
func (h *Handlers) DownloadReceipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.bookings(c).GetBooking(c.Request.Context(), session(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if b.Status != domain.StatusConfirmed && b.Status != domain.StatusCompleted {
		RespondDomainError(c, domain.ConflictError{Resource: "booking", Msg: "booking has not been paid"})
		return
	}
	pdf, filename, err := h.docs(c).GenerateReceipt(b)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to generate receipt", err)
		return
	}
	sendPDF(c, pdf, filename)
}

func sendPDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
