package handlers

import (
	"time"

	"ticketbooking/internal/http/middleware"
	"ticketbooking/internal/services"
	"ticketbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

// Handlers holds the services behind the HTTP surface. Services are value
// types; each request works on a copy tagged with its request id.
type Handlers struct {
	Fares    utils.FareTable
	Policy   services.BookingPolicy
	Auth     services.AuthService
	Bookings services.BookingService
	Docs     services.DocsService
	Stats    services.StatsService

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool
	Now          func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handlers) auth(c *gin.Context) services.AuthService {
	s := h.Auth
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) bookings(c *gin.Context) services.BookingService {
	s := h.Bookings
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) docs(c *gin.Context) services.DocsService {
	s := h.Docs
	s.RequestID = middleware.GetRequestID(c)
	return s
}

// session returns the caller's session; RequireSession guarantees it on
// protected routes.
func session(c *gin.Context) services.Session {
	s, _ := middleware.CurrentSession(c)
	return s
}
