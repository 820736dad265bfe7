package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbooking_bookings_created_total",
		Help: "The total number of bookings created",
	})
	bookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbooking_bookings_cancelled_total",
		Help: "The total number of bookings cancelled",
	})
	bookingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbooking_bookings_rejected_total",
		Help: "The total number of booking submissions rejected by validation",
	})
	eventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketbooking_event_publish_errors_total",
		Help: "The total number of booking events that failed to publish",
	})
)
