package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightStatus_Display(t *testing.T) {
	cases := map[FlightStatus]StatusDisplay{
		FlightStatusActive:    {Label: "On Time", Tone: ToneSuccess, Icon: "check-circle"},
		FlightStatusDelayed:   {Label: "Delayed", Tone: ToneWarning, Icon: "clock"},
		FlightStatusCancelled: {Label: "Cancelled", Tone: ToneDanger, Icon: "x-circle"},
		FlightStatusCompleted: {Label: "Completed", Tone: ToneNeutral, Icon: "check-circle"},
	}
	for status, want := range cases {
		got, ok := status.Display()
		assert.True(t, ok, status)
		assert.Equal(t, want, got, status)
		assert.True(t, status.Valid())
	}

	_, ok := FlightStatus("boarding").Display()
	assert.False(t, ok)
	assert.False(t, FlightStatus("boarding").Valid())
}

func TestBookingStatus_Display(t *testing.T) {
	d, ok := BookingStatusConfirmed.Display()
	assert.True(t, ok)
	assert.Equal(t, "Confirmed", d.Label)

	d, ok = BookingStatusCancelled.Display()
	assert.True(t, ok)
	assert.Equal(t, ToneDanger, d.Tone)

	_, ok = BookingStatus("pending").Display()
	assert.False(t, ok)
}

func TestFlightStatuses_ReturnsCopy(t *testing.T) {
	list := FlightStatuses()
	list[0] = "mutated"
	assert.Equal(t, FlightStatusActive, FlightStatuses()[0])
}

func TestErrors(t *testing.T) {
	conflict := &SeatConflictError{Seats: []string{"1A", "2C"}}
	assert.Equal(t, "seats 1A, 2C are already booked", conflict.Error())

	wrapped := error(&InsertFailureError{Cause: ErrNotFound})
	assert.ErrorIs(t, wrapped, ErrNotFound)

	got, ok := AsSeatConflict(conflict)
	assert.True(t, ok)
	assert.Equal(t, []string{"1A", "2C"}, got.Seats)

	assert.True(t, IsValidation(NewValidationError("seats", "at least one seat is required")))
	assert.Equal(t, "seats: at least one seat is required", NewValidationError("seats", "at least one seat is required").Error())
}

func TestStatusTables_EveryStatusHasDistinctDisplay(t *testing.T) {
	declared := []FlightStatus{FlightStatusActive, FlightStatusDelayed, FlightStatusCancelled, FlightStatusCompleted}
	assert.ElementsMatch(t, declared, FlightStatuses())

	labels := map[string]FlightStatus{}
	for _, s := range FlightStatuses() {
		d, ok := s.Display()
		assert.True(t, ok, s)
		assert.NotEmpty(t, d.Label, s)
		assert.NotEmpty(t, d.Tone, s)
		_, dup := labels[d.Label]
		assert.False(t, dup, "label %q reused by %s", d.Label, s)
		labels[d.Label] = s
	}

	for _, s := range []BookingStatus{BookingStatusConfirmed, BookingStatusCancelled} {
		d, ok := s.Display()
		assert.True(t, ok, s)
		assert.NotEmpty(t, d.Label, s)
		assert.True(t, s.Valid(), s)
	}
}
