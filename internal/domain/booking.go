package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusIndex(s)
	return ok
}

type Booking struct {
	ID          int64         `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	FlightID    int64         `json:"flight_id"`
	SeatNumber  string        `json:"seat_number"`
	Status      BookingStatus `json:"status"`
	BookingDate time.Time     `json:"booking_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BookedSeat is a non-cancelled seat on a flight together with its owner.
type BookedSeat struct {
	SeatNumber string    `json:"seat_number"`
	UserID     uuid.UUID `json:"user_id"`
}

type UserBooking struct {
	Booking
	Flight FlightSummary `json:"flight"`
}

type PassengerBooking struct {
	Booking
	Email string `json:"email"`
}

type AdminBooking struct {
	Booking
	Email  string        `json:"email"`
	Flight FlightSummary `json:"flight"`
}
