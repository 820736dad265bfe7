package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "ticketbooking/internal/config"
	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/utils"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, reference, user_id, starts_from, destination, travel_date, booking_date, adults, children, total_price, status`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b      models.Booking
		travel time.Time
		status string
	)
	if err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.StartsFrom,
		&b.Destination,
		&travel,
		&b.BookingDate,
		&b.Adults,
		&b.Children,
		&b.TotalPrice,
		&status,
	); err != nil {
		return models.Booking{}, err
	}
	b.TravelDate = utils.FormatDate(travel)
	b.Status = domain.BookingStatus(status)
	b.Passengers = []models.Passenger{}
	return b, nil
}

// Create inserts the booking and its passengers in one transaction and
// returns the new booking id.
func (r BookingRepository) Create(ctx context.Context, b models.Booking) (int64, error) {
	travel, err := utils.ParseDate(b.TravelDate)
	if err != nil {
		return 0, domain.ValidationError{Field: "travelDate", Msg: "invalid date", Err: err}
	}

	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (reference, user_id, starts_from, destination, travel_date, booking_date, adults, children, total_price, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Reference, b.UserID, b.StartsFrom, b.Destination, travel, b.BookingDate, b.Adults, b.Children, b.TotalPrice, string(b.Status))
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to save booking", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to read booking id", Err: err}
	}

	for _, p := range b.Passengers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO passengers (booking_id, name, age, is_adult, id_type, id_number)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, p.Name, p.Age, p.IsAdult, string(p.IDType), p.IDNumber); err != nil {
			return 0, domain.InternalError{Msg: "failed to save passenger", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.InternalError{Msg: "failed to commit booking", Err: err}
	}
	return id, nil
}

func (r BookingRepository) one(ctx context.Context, where string, arg any) (models.Booking, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where+` LIMIT 1`, arg)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	byID, err := r.passengers(ctx, []int64{b.ID})
	if err != nil {
		return models.Booking{}, err
	}
	b.Passengers = append(b.Passengers, byID[b.ID]...)
	return b, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	return r.one(ctx, `id = ?`, id)
}

func (r BookingRepository) GetByReference(ctx context.Context, ref string) (models.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "required"}
	}
	return r.one(ctx, `reference = ?`, ref)
}

// ListByUser returns the user's bookings, newest first, with passengers.
func (r BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = ?
		ORDER BY booking_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list bookings", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	ids := []int64{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Msg: "failed to read booking", Err: err}
		}
		out = append(out, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to read bookings", Err: err}
	}
	if len(ids) == 0 {
		return out, nil
	}

	byID, err := r.passengers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Passengers = append(out[i].Passengers, byID[out[i].ID]...)
	}
	return out, nil
}

func (r BookingRepository) passengers(ctx context.Context, bookingIDs []int64) (map[int64][]models.Passenger, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(bookingIDs)), ",")
	args := make([]any, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		args = append(args, id)
	}

	rows, err := r.db().QueryContext(ctx, `
		SELECT id, booking_id, name, age, is_adult, id_type, id_number
		FROM passengers
		WHERE booking_id IN (`+placeholders+`)
		ORDER BY booking_id ASC, id ASC
	`, args...)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load passengers", Err: err}
	}
	defer rows.Close()

	out := map[int64][]models.Passenger{}
	for rows.Next() {
		var (
			p      models.Passenger
			idType string
		)
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.IsAdult, &idType, &p.IDNumber); err != nil {
			return nil, domain.InternalError{Msg: "failed to read passenger", Err: err}
		}
		p.IDType = models.IDType(idType)
		out[p.BookingID] = append(out[p.BookingID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "failed to read passengers", Err: err}
	}
	return out, nil
}

func (r BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if id <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	if _, err := r.db().ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return domain.InternalError{Msg: fmt.Sprintf("failed to set booking %d %s", id, status), Err: err}
	}
	return nil
}
