// Package queue defines booking events and publishes them to RabbitMQ.
package queue

const (
	QueueBookingCreated   = "booking.created"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingEvent is published when a booking is created or cancelled. It
// carries enough for downstream consumers to notify or report without
// reading the primary database. Passenger identity numbers are not included.
type BookingEvent struct {
	Type        string `json:"type"`
	BookingID   int64  `json:"booking_id"`
	Reference   string `json:"reference"`
	UserID      int64  `json:"user_id"`
	StartsFrom  string `json:"starts_from"`
	Destination string `json:"destination"`
	TravelDate  string `json:"travel_date"`
	Passengers  int    `json:"passengers"`
	TotalPrice  int64  `json:"total_price"`
	OccurredAt  string `json:"occurred_at"`
}
