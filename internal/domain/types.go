package domain

// BookingStatus is the lifecycle state of a submitted booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus accepts only the known statuses.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
