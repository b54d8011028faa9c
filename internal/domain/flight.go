package domain

import "time"

type FlightStatus string

const (
	FlightStatusActive    FlightStatus = "active"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusCompleted FlightStatus = "completed"
)

func (s FlightStatus) Valid() bool {
	_, ok := flightStatusIndex(s)
	return ok
}

type Flight struct {
	ID             int64        `json:"id"`
	FlightNumber   string       `json:"flight_number"`
	Source         string       `json:"source"`
	Destination    string       `json:"destination"`
	DepartureTime  time.Time    `json:"departure_time"`
	ArrivalTime    time.Time    `json:"arrival_time"`
	TotalSeats     int          `json:"total_seats"`
	AvailableSeats int          `json:"available_seats"`
	PriceCents     int64        `json:"price_cents"`
	Status         FlightStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// FlightSummary is the slice of a flight joined onto booking listings.
type FlightSummary struct {
	FlightNumber  string       `json:"flight_number"`
	Source        string       `json:"source"`
	Destination   string       `json:"destination"`
	DepartureTime time.Time    `json:"departure_time"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	Status        FlightStatus `json:"status"`
	PriceCents    int64        `json:"price_cents"`
}
