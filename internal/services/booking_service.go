package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/queue"
	"ticketbooking/internal/repositories"
	"ticketbooking/internal/utils"

	"github.com/google/uuid"
)

// EventPublisher hands booking events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.BookingEvent) error
}

type BookingService struct {
	Repo      repositories.BookingRepository
	Fares     utils.FareTable
	Policy    BookingPolicy
	Events    EventPublisher
	RequestID string

	Now          func() time.Time
	NewReference func() string
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) newReference() string {
	if s.NewReference != nil {
		return s.NewReference()
	}
	return "TB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// CreateBooking validates the submitted draft, prices it from the fare
// table and stores it as pending. The client's totalPrice is ignored.
func (s BookingService) CreateBooking(ctx context.Context, sess Session, req models.BookingRequest) (models.Booking, error) {
	req.StartsFrom = strings.TrimSpace(req.StartsFrom)
	req.Destination = strings.TrimSpace(req.Destination)

	now := s.now()
	if violations := ValidateBookingRequest(req, s.Fares, now, s.Policy); len(violations) > 0 {
		bookingsRejected.Inc()
		return models.Booking{}, domain.ValidationError{Field: "booking", Violations: violations}
	}

	manifest := ClearExemptIDs(NormalizeManifest(req))
	total := s.Fares.ComputeTotal(req.StartsFrom, req.Destination, req.Adults, req.Children)
	if req.TotalPrice != 0 && req.TotalPrice != total {
		utils.LogEvent(s.RequestID, "booking", "price_mismatch",
			fmt.Sprintf("client=%d server=%d route=%s", req.TotalPrice, total, utils.RouteKey(req.StartsFrom, req.Destination)))
	}

	b := models.Booking{
		Reference:   s.newReference(),
		UserID:      sess.UserID,
		StartsFrom:  req.StartsFrom,
		Destination: req.Destination,
		TravelDate:  utils.DateOnly(req.TravelDate),
		BookingDate: now,
		Adults:      req.Adults,
		Children:    req.Children,
		TotalPrice:  total,
		Status:      domain.StatusPending,
		Passengers:  make([]models.Passenger, 0, len(manifest)),
	}
	for _, p := range manifest {
		age, _ := ParseAge(p.Age.String())
		b.Passengers = append(b.Passengers, models.Passenger{
			Name:     strings.TrimSpace(p.Name),
			Age:      age,
			IsAdult:  p.IsAdult,
			IDType:   p.IDType,
			IDNumber: p.IDNumber,
		})
	}

	id, err := s.Repo.Create(ctx, b)
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = id
	for i := range b.Passengers {
		b.Passengers[i].BookingID = id
	}
	bookingsCreated.Inc()

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d user_id=%d passengers=%d total=%d", id, sess.UserID, len(b.Passengers), total))
	s.publish(ctx, queue.QueueBookingCreated, b)
	return b, nil
}

func (s BookingService) ListUserBookings(ctx context.Context, sess Session) ([]models.Booking, error) {
	return s.Repo.ListByUser(ctx, sess.UserID)
}

// GetBooking returns a booking visible to the session: its owner or an admin.
func (s BookingService) GetBooking(ctx context.Context, sess Session, id int64) (models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	return visibleTo(sess, b)
}

func (s BookingService) GetByReference(ctx context.Context, sess Session, ref string) (models.Booking, error) {
	b, err := s.Repo.GetByReference(ctx, ref)
	if err != nil {
		return models.Booking{}, err
	}
	return visibleTo(sess, b)
}

// visibleTo hides other users' bookings as not found.
func visibleTo(sess Session, b models.Booking) (models.Booking, error) {
	if b.UserID != sess.UserID && !sess.IsAdmin() {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

// CancelBooking is limited to the booking's owner; admins use UpdateStatus.
func (s BookingService) CancelBooking(ctx context.Context, sess Session, id int64) (models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != sess.UserID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if b.Status == domain.StatusCancelled {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "booking is already cancelled"}
	}
	if b.Status == domain.StatusCompleted {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "completed bookings cannot be cancelled"}
	}
	if err := s.Repo.UpdateStatus(ctx, b.ID, domain.StatusCancelled); err != nil {
		return models.Booking{}, err
	}
	b.Status = domain.StatusCancelled
	bookingsCancelled.Inc()

	utils.LogEvent(s.RequestID, "booking", "cancel", fmt.Sprintf("booking_id=%d user_id=%d", b.ID, sess.UserID))
	s.publish(ctx, queue.QueueBookingCancelled, b)
	return b, nil
}

// PayBooking validates the card and confirms a pending booking. Card data
// is not stored.
func (s BookingService) PayBooking(ctx context.Context, sess Session, id int64, card models.CardPayment) (models.Booking, error) {
	b, err := s.GetBooking(ctx, sess, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != domain.StatusPending {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("booking is %s", b.Status)}
	}
	if msg := ValidateCard(card, s.now()); msg != "" {
		return models.Booking{}, domain.ValidationError{Field: "card", Msg: msg}
	}
	if err := s.Repo.UpdateStatus(ctx, b.ID, domain.StatusConfirmed); err != nil {
		return models.Booking{}, err
	}
	b.Status = domain.StatusConfirmed
	utils.LogEvent(s.RequestID, "booking", "pay", fmt.Sprintf("booking_id=%d", b.ID))
	return b, nil
}

// UpdateStatus is the admin override of a booking's status.
func (s BookingService) UpdateStatus(ctx context.Context, id int64, status string) (models.Booking, error) {
	st, ok := domain.ParseBookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", status)}
	}
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status == st {
		return b, nil
	}
	if err := s.Repo.UpdateStatus(ctx, id, st); err != nil {
		return models.Booking{}, err
	}
	prev := b.Status
	b.Status = st
	utils.LogEvent(s.RequestID, "booking", "status", fmt.Sprintf("booking_id=%d from=%s to=%s", id, prev, st))
	if st == domain.StatusCancelled {
		bookingsCancelled.Inc()
		s.publish(ctx, queue.QueueBookingCancelled, b)
	}
	return b, nil
}

// publish never fails the caller; broker problems are logged and counted.
func (s BookingService) publish(ctx context.Context, kind string, b models.Booking) {
	if s.Events == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:        kind,
		BookingID:   b.ID,
		Reference:   b.Reference,
		UserID:      b.UserID,
		StartsFrom:  b.StartsFrom,
		Destination: b.Destination,
		TravelDate:  b.TravelDate,
		Passengers:  len(b.Passengers),
		TotalPrice:  b.TotalPrice,
		OccurredAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		eventPublishErrors.Inc()
		utils.LogEvent(s.RequestID, "booking", "publish_failed", fmt.Sprintf("type=%s booking_id=%d err=%v", kind, b.ID, err))
	}
}
