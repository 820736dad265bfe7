package repositories

import (
	"context"
	"testing"
	"time"

	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var bookingCols = []string{"id", "reference", "user_id", "starts_from", "destination", "travel_date", "booking_date", "adults", "children", "total_price", "status"}
var passengerCols = []string{"id", "booking_id", "name", "age", "is_adult", "id_type", "id_number"}

func TestListByUserGroupsPassengers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	travel := time.Date(2030, 1, 15, 0, 0, 0, 0, time.Local)
	booked := time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
	mock.ExpectQuery("FROM bookings\\s+WHERE user_id = \\?").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(2, "TB-2", 9, "CityA", "CityB", travel, booked, 1, 0, 500, "pending").
			AddRow(1, "TB-1", 9, "CityB", "CityA", travel, booked, 1, 1, 1000, "confirmed"))
	mock.ExpectQuery("WHERE booking_id IN \\(\\?,\\?\\)").WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows(passengerCols).
			AddRow(10, 1, "Asha", 34, true, "aadhar", "123456789012").
			AddRow(11, 1, "Mini", 4, false, "aadhar", "").
			AddRow(12, 2, "Ravi", 36, true, "passport", "K1234567"))

	list, err := BookingRepository{DB: db}.ListByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(list))
	}
	if len(list[0].Passengers) != 1 || list[0].Passengers[0].Name != "Ravi" {
		t.Fatalf("booking 2 passengers = %+v", list[0].Passengers)
	}
	if len(list[1].Passengers) != 2 || list[1].Passengers[1].IsAdult {
		t.Fatalf("booking 1 passengers = %+v", list[1].Passengers)
	}
	if list[1].TravelDate != "2030-01-15" || list[1].Status != domain.StatusConfirmed {
		t.Fatalf("unexpected booking: %+v", list[1])
	}
}

func TestListByUserEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings").WillReturnRows(sqlmock.NewRows(bookingCols))

	list, err := BookingRepository{DB: db}.ListByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("passenger query should be skipped: %v", err)
	}
}

func TestGetByReferenceNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("WHERE reference = \\?").WithArgs("TB-NOPE").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err = BookingRepository{DB: db}.GetByReference(context.Background(), " TB-NOPE ")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	_, err := BookingRepository{}.Create(context.Background(), bookingWithDate("15/01/2030"))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func bookingWithDate(d string) models.Booking {
	return models.Booking{Reference: "TB-X", UserID: 1, StartsFrom: "CityA", Destination: "CityB", TravelDate: d}
}
