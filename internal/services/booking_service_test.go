package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketbooking/internal/domain"
	"ticketbooking/internal/queue"
	"ticketbooking/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

type recordingPublisher struct {
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

var bookingColumnNames = []string{"id", "reference", "user_id", "starts_from", "destination", "travel_date", "booking_date", "adults", "children", "total_price", "status"}

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, *recordingPublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	pub := &recordingPublisher{}
	svc := BookingService{
		Repo:         repositories.BookingRepository{DB: db},
		Fares:        cityFares(),
		Events:       pub,
		Now:          func() time.Time { return validatorNow },
		NewReference: func() string { return "TB-TEST00000001" },
	}
	return svc, mock, pub
}

func expectBookingLoad(mock sqlmock.Sqlmock, id, userID int64, status string) {
	travel := time.Date(2030, 1, 15, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(bookingColumnNames).
			AddRow(id, "TB-TEST00000001", userID, "CityA", "CityB", travel, validatorNow, 2, 1, 1500, status))
	mock.ExpectQuery(`FROM passengers`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "name", "age", "is_adult", "id_type", "id_number"}).
			AddRow(1, id, "Asha", 34, true, "aadhar", "123456789012"))
}

func TestCreateBookingPersistsAndPublishes(t *testing.T) {
	svc, mock, pub := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("TB-TEST00000001", int64(9), "CityA", "CityB", sqlmock.AnyArg(), validatorNow, 2, 1, int64(1500), "pending").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WithArgs(int64(42), "Asha", 34, true, "aadhar", "123456789012").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WithArgs(int64(42), "Ravi", 36, true, "passport", "K1234567").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WithArgs(int64(42), "Mini", 4, false, "aadhar", "").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	req := validRequest()
	req.TotalPrice = 1 // client value is ignored
	req.Passengers[2].IDNumber = "123456789012"

	b, err := svc.CreateBooking(context.Background(), Session{UserID: 9}, req)
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}
	if b.ID != 42 || b.TotalPrice != 1500 || b.Status != domain.StatusPending {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.Passengers[2].IDNumber != "" {
		t.Fatalf("exempt child id stored")
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.QueueBookingCreated || pub.events[0].BookingID != 42 {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingRejectsInvalidDraft(t *testing.T) {
	svc, mock, pub := newBookingService(t)

	req := validRequest()
	req.StartsFrom = "  "
	req.Passengers[1].IDNumber = "bad"

	_, err := svc.CreateBooking(context.Background(), Session{UserID: 9}, req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	v := domain.Violations(err)
	if len(v) != 2 || v[0] != "Passenger 2 Passport number is invalid" || v[1] != "Starting location is required" {
		t.Fatalf("violations = %v", v)
	}
	if len(pub.events) != 0 {
		t.Fatalf("event published for rejected booking")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB access: %v", err)
	}
}

func TestCreateBookingSurvivesPublishFailure(t *testing.T) {
	svc, mock, pub := newBookingService(t)
	pub.err = errors.New("broker down")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO passengers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO passengers").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO passengers").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	if _, err := svc.CreateBooking(context.Background(), Session{UserID: 1}, validRequest()); err != nil {
		t.Fatalf("publish failure leaked to caller: %v", err)
	}
}

func TestCreateBookingRollsBackOnPassengerFailure(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO passengers").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), Session{UserID: 1}, validRequest())
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetBookingHidesOtherUsers(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	expectBookingLoad(mock, 3, 100, "pending")

	if _, err := svc.GetBooking(context.Background(), Session{UserID: 200, Role: "user"}, 3); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	expectBookingLoad(mock, 3, 100, "pending")
	b, err := svc.GetBooking(context.Background(), Session{UserID: 1, Role: "admin"}, 3)
	if err != nil || len(b.Passengers) != 1 {
		t.Fatalf("admin lookup failed: %+v %v", b, err)
	}
}

func TestCancelBooking(t *testing.T) {
	svc, mock, pub := newBookingService(t)
	expectBookingLoad(mock, 3, 9, "confirmed")
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \?`).
		WithArgs("cancelled", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := svc.CancelBooking(context.Background(), Session{UserID: 9}, 3)
	if err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}
	if b.Status != domain.StatusCancelled {
		t.Fatalf("status = %s", b.Status)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.QueueBookingCancelled {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestCancelBookingConflicts(t *testing.T) {
	svc, mock, _ := newBookingService(t)

	expectBookingLoad(mock, 3, 9, "cancelled")
	if _, err := svc.CancelBooking(context.Background(), Session{UserID: 9}, 3); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for cancelled booking, got %v", err)
	}
	expectBookingLoad(mock, 3, 9, "completed")
	if _, err := svc.CancelBooking(context.Background(), Session{UserID: 9}, 3); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for completed booking, got %v", err)
	}
	expectBookingLoad(mock, 3, 9, "pending")
	if _, err := svc.CancelBooking(context.Background(), Session{UserID: 10, Role: "admin"}, 3); !domain.IsNotFound(err) {
		t.Fatalf("cancel is owner only, got %v", err)
	}
}

func TestPayBooking(t *testing.T) {
	svc, mock, _ := newBookingService(t)
	card := cardFixture()

	expectBookingLoad(mock, 3, 9, "pending")
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("confirmed", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	b, err := svc.PayBooking(context.Background(), Session{UserID: 9}, 3, card)
	if err != nil || b.Status != domain.StatusConfirmed {
		t.Fatalf("PayBooking: %+v %v", b, err)
	}

	expectBookingLoad(mock, 3, 9, "confirmed")
	if _, err := svc.PayBooking(context.Background(), Session{UserID: 9}, 3, card); !domain.IsConflict(err) {
		t.Fatalf("expected conflict paying twice, got %v", err)
	}

	expectBookingLoad(mock, 3, 9, "pending")
	card.CVV = "1"
	if _, err := svc.PayBooking(context.Background(), Session{UserID: 9}, 3, card); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bad card, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc, _, _ := newBookingService(t)
	if _, err := svc.UpdateStatus(context.Background(), 3, "shipped"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusToCancelledPublishes(t *testing.T) {
	svc, mock, pub := newBookingService(t)
	expectBookingLoad(mock, 3, 9, "confirmed")
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("cancelled", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := svc.UpdateStatus(context.Background(), 3, " Cancelled ")
	if err != nil || b.Status != domain.StatusCancelled {
		t.Fatalf("UpdateStatus: %+v %v", b, err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected cancel event, got %d", len(pub.events))
	}
}
