package kafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingCreated      = "booking_created"
	EventBookingCancelled    = "booking_cancelled"
	EventFlightStatusChanged = "flight_status_changed"
)

// BookingEvent is the payload published on the booking events topic. Flight
// status events leave UserID empty and carry the new status.
type BookingEvent struct {
	Type         string    `json:"type"`
	UserID       uuid.UUID `json:"user_id,omitempty"`
	FlightID     int64     `json:"flight_id"`
	FlightNumber string    `json:"flight_number,omitempty"`
	BookingIDs   []int64   `json:"booking_ids,omitempty"`
	Seats        []string  `json:"seats,omitempty"`
	FlightStatus string    `json:"flight_status,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
