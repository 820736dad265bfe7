package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "ticketbooking/internal/config"
	"ticketbooking/internal/domain"
	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/utils"
)

type StatsRepository struct {
	DB *sql.DB
}

func (r StatsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// RouteAggregate is the raw per-route rollup of non-cancelled bookings.
type RouteAggregate struct {
	StartsFrom  string
	Destination string
	Bookings    int
	Revenue     int64
	Passengers  int
	TravelDates int
}

// Totals counts all bookings and sums revenue of non-cancelled ones.
func (r StatsRepository) Totals(ctx context.Context) (int, int64, error) {
	var (
		count   int
		revenue int64
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN total_price ELSE 0 END), 0)
		FROM bookings
	`).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, domain.InternalError{Msg: "failed to load totals", Err: err}
	}
	return count, revenue, nil
}

func (r StatsRepository) RouteAggregates(ctx context.Context) ([]RouteAggregate, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT starts_from, destination, COUNT(*), COALESCE(SUM(total_price), 0),
		       COALESCE(SUM(adults + children), 0), COUNT(DISTINCT travel_date)
		FROM bookings
		WHERE status <> 'cancelled'
		GROUP BY starts_from, destination
		ORDER BY COUNT(*) DESC, starts_from ASC, destination ASC
	`)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load route stats", Err: err}
	}
	defer rows.Close()

	out := []RouteAggregate{}
	for rows.Next() {
		var a RouteAggregate
		if err := rows.Scan(&a.StartsFrom, &a.Destination, &a.Bookings, &a.Revenue, &a.Passengers, &a.TravelDates); err != nil {
			return nil, domain.InternalError{Msg: "failed to read route stats", Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r StatsRepository) Recent(ctx context.Context, limit int) ([]models.RecentBooking, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT b.id, COALESCE(u.username, ''), b.starts_from, b.destination, b.travel_date, b.total_price, b.status
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		ORDER BY b.booking_date DESC, b.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load recent bookings", Err: err}
	}
	defer rows.Close()

	out := []models.RecentBooking{}
	for rows.Next() {
		var (
			rb     models.RecentBooking
			travel time.Time
		)
		if err := rows.Scan(&rb.ID, &rb.Username, &rb.StartsFrom, &rb.Destination, &travel, &rb.TotalPrice, &rb.Status); err != nil {
			return nil, domain.InternalError{Msg: "failed to read recent booking", Err: err}
		}
		rb.TravelDate = utils.FormatDate(travel)
		out = append(out, rb)
	}
	return out, rows.Err()
}
