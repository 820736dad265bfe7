package models

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalBookings  int             `json:"totalBookings"`
	TotalRevenue   int64           `json:"totalRevenue"`
	RouteStats     []RouteStat     `json:"routeStats"`
	RecentBookings []RecentBooking `json:"recentBookings"`
}

type RouteStat struct {
	Route         string `json:"route"`
	TotalBookings int    `json:"totalBookings"`
	Revenue       int64  `json:"revenue"`
	Occupancy     int    `json:"occupancy"`
}

type RecentBooking struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	StartsFrom  string `json:"starts_from"`
	Destination string `json:"destination"`
	TravelDate  string `json:"travel_date"`
	TotalPrice  int64  `json:"total_price"`
	Status      string `json:"status"`
}
