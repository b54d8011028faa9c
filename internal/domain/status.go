package domain

type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// StatusDisplay is how a status is presented to clients.
type StatusDisplay struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Icon  string `json:"icon"`
}

// The status and display tables are positional: entry i of a display table
// describes entry i of its status table. The blank array indexing below fails
// to compile unless each pair has the same length, so every listed status has
// a display. A new status constant must also be added to its status list;
// Valid and Display reject anything that is not listed.

var flightStatuses = [...]FlightStatus{
	FlightStatusActive,
	FlightStatusDelayed,
	FlightStatusCancelled,
	FlightStatusCompleted,
}

var flightStatusDisplays = [...]StatusDisplay{
	{Label: "On Time", Tone: ToneSuccess, Icon: "check-circle"},
	{Label: "Delayed", Tone: ToneWarning, Icon: "clock"},
	{Label: "Cancelled", Tone: ToneDanger, Icon: "x-circle"},
	{Label: "Completed", Tone: ToneNeutral, Icon: "check-circle"},
}

var _ = [1]struct{}{}[len(flightStatusDisplays)-len(flightStatuses)]

var bookingStatuses = [...]BookingStatus{
	BookingStatusConfirmed,
	BookingStatusCancelled,
}

var bookingStatusDisplays = [...]StatusDisplay{
	{Label: "Confirmed", Tone: ToneSuccess, Icon: "check"},
	{Label: "Cancelled", Tone: ToneDanger, Icon: "x"},
}

var _ = [1]struct{}{}[len(bookingStatusDisplays)-len(bookingStatuses)]

func FlightStatuses() []FlightStatus {
	out := make([]FlightStatus, len(flightStatuses))
	copy(out, flightStatuses[:])
	return out
}

func flightStatusIndex(s FlightStatus) (int, bool) {
	for i, v := range flightStatuses {
		if v == s {
			return i, true
		}
	}
	return 0, false
}

func bookingStatusIndex(s BookingStatus) (int, bool) {
	for i, v := range bookingStatuses {
		if v == s {
			return i, true
		}
	}
	return 0, false
}

// Display returns the presentation of s. The second result is false for a
// value outside the closed set, which only happens with unvalidated input.
func (s FlightStatus) Display() (StatusDisplay, bool) {
	i, ok := flightStatusIndex(s)
	if !ok {
		return StatusDisplay{}, false
	}
	return flightStatusDisplays[i], true
}

func (s BookingStatus) Display() (StatusDisplay, bool) {
	i, ok := bookingStatusIndex(s)
	if !ok {
		return StatusDisplay{}, false
	}
	return bookingStatusDisplays[i], true
}
