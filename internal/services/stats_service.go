package services

import (
	"context"
	"math"

	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/repositories"
	"ticketbooking/internal/utils"
)

const recentBookingsLimit = 10

type StatsService struct {
	Repo repositories.StatsRepository
	// SeatCapacity is the seats offered per route per travel date.
	SeatCapacity int
}

func (s StatsService) AdminStats(ctx context.Context) (models.AdminStats, error) {
	count, revenue, err := s.Repo.Totals(ctx)
	if err != nil {
		return models.AdminStats{}, err
	}
	aggs, err := s.Repo.RouteAggregates(ctx)
	if err != nil {
		return models.AdminStats{}, err
	}
	recent, err := s.Repo.Recent(ctx, recentBookingsLimit)
	if err != nil {
		return models.AdminStats{}, err
	}

	stats := models.AdminStats{
		TotalBookings:  count,
		TotalRevenue:   revenue,
		RouteStats:     make([]models.RouteStat, 0, len(aggs)),
		RecentBookings: recent,
	}
	for _, a := range aggs {
		stats.RouteStats = append(stats.RouteStats, models.RouteStat{
			Route:         utils.RouteKey(a.StartsFrom, a.Destination),
			TotalBookings: a.Bookings,
			Revenue:       a.Revenue,
			Occupancy:     Occupancy(a.Passengers, a.TravelDates, s.SeatCapacity),
		})
	}
	return stats, nil
}

// Occupancy is the percentage of offered seats taken, capped at 100.
func Occupancy(passengers, travelDates, capacity int) int {
	if passengers <= 0 || travelDates <= 0 || capacity <= 0 {
		return 0
	}
	pct := math.Round(100 * float64(passengers) / float64(capacity*travelDates))
	return int(min(pct, 100))
}
