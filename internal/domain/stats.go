package domain

type DashboardStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveFlights int64 `json:"active_flights"`
	TodayBookings int64 `json:"today_bookings"`
	TotalRevenue  int64 `json:"total_revenue_cents"`
}
