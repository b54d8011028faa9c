package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmailTaken   = errors.New("email already registered")
)

// ValidationError is a caller-side precondition failure. It is raised before
// any storage call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SeatConflictError lists seats that already hold a confirmed booking.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats %s are already booked", strings.Join(e.Seats, ", "))
}

type InsertFailureError struct {
	Cause error
}

func (e *InsertFailureError) Error() string {
	return fmt.Sprintf("insert bookings: %v", e.Cause)
}

func (e *InsertFailureError) Unwrap() error { return e.Cause }

// CounterAdjustError is never returned to end users; it is logged by the
// booking flow and the booking itself stays successful.
type CounterAdjustError struct {
	FlightID int64
	Delta    int
	Cause    error
}

func (e *CounterAdjustError) Error() string {
	return fmt.Sprintf("adjust available seats of flight %d by %d: %v", e.FlightID, e.Delta, e.Cause)
}

func (e *CounterAdjustError) Unwrap() error { return e.Cause }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func AsSeatConflict(err error) (*SeatConflictError, bool) {
	var c *SeatConflictError
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
