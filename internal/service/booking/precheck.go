package booking

import (
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/seatmap"
)

// CheckSelection holds the caller-side preconditions for a booking request
// against the flight as last read. It is advisory: the counter may move
// between this check and the insert.
func CheckSelection(flight *domain.Flight, seats []string) error {
	seats = seatmap.Normalize(seats)
	if len(seats) == 0 {
		return domain.NewValidationError("seats", "at least one seat must be selected")
	}
	switch flight.Status {
	case domain.FlightStatusActive, domain.FlightStatusDelayed:
	default:
		return domain.NewValidationError("flight_id", "flight %s is %s", flight.FlightNumber, flight.Status)
	}
	if len(seats) > flight.AvailableSeats {
		return domain.NewValidationError("seats", "only %d seats available", flight.AvailableSeats)
	}
	for _, label := range seats {
		if !seatmap.Contains(flight.TotalSeats, label) {
			return domain.NewValidationError("seats", "seat %s does not exist on this flight", label)
		}
	}
	return nil
}
