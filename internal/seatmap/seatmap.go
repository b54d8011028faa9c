// Package seatmap builds the cabin layout shown to a passenger and keeps the
// in-progress seat selection. Everything here is pure: the same inputs always
// produce the same map.
package seatmap

import (
	"fmt"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
)

const SeatsPerRow = 6

var columns = [SeatsPerRow]byte{'A', 'B', 'C', 'D', 'E', 'F'}

type Kind string

const (
	KindWindow Kind = "window"
	KindMiddle Kind = "middle"
	KindAisle  Kind = "aisle"
)

var kinds = [SeatsPerRow]Kind{KindWindow, KindMiddle, KindAisle, KindAisle, KindMiddle, KindWindow}

type State string

const (
	StateAvailable     State = "available"
	StateBookedByOther State = "booked_by_other"
	StateBookedBySelf  State = "booked_by_self"
	StateSelected      State = "selected"
)

type Seat struct {
	Label    string `json:"label"`
	Row      int    `json:"row"`
	Position int    `json:"position"`
	Kind     Kind   `json:"kind"`
	State    State  `json:"state"`
}

// Occupancy maps a booked seat label to the user holding it.
type Occupancy map[string]uuid.UUID

func NewOccupancy(booked []domain.BookedSeat) Occupancy {
	occ := make(Occupancy, len(booked))
	for _, b := range booked {
		occ[b.SeatNumber] = b.UserID
	}
	return occ
}

func (o Occupancy) Booked(label string) bool {
	_, ok := o[label]
	return ok
}

// Generate lays totalSeats out in rows of six. A trailing partial row keeps
// the leftmost columns in label order.
func Generate(totalSeats int, occ Occupancy, selected []string, currentUser uuid.UUID) [][]Seat {
	if totalSeats <= 0 {
		return [][]Seat{}
	}

	picked := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		picked[s] = struct{}{}
	}

	rows := RowCount(totalSeats)
	out := make([][]Seat, 0, rows)
	for row := 1; row <= rows; row++ {
		width := SeatsPerRow
		if remaining := totalSeats - (row-1)*SeatsPerRow; remaining < width {
			width = remaining
		}
		seats := make([]Seat, 0, width)
		for pos := 0; pos < width; pos++ {
			label := Label(row, pos)
			seats = append(seats, Seat{
				Label:    label,
				Row:      row,
				Position: pos,
				Kind:     kinds[pos],
				State:    stateOf(label, occ, picked, currentUser),
			})
		}
		out = append(out, seats)
	}
	return out
}

func stateOf(label string, occ Occupancy, picked map[string]struct{}, currentUser uuid.UUID) State {
	if owner, ok := occ[label]; ok {
		if owner == currentUser {
			return StateBookedBySelf
		}
		return StateBookedByOther
	}
	if _, ok := picked[label]; ok {
		return StateSelected
	}
	return StateAvailable
}

func RowCount(totalSeats int) int {
	if totalSeats <= 0 {
		return 0
	}
	return (totalSeats + SeatsPerRow - 1) / SeatsPerRow
}

func Label(row, position int) string {
	return strconv.Itoa(row) + string(columns[position])
}

// ParseLabel splits a label like "14C" into its 1-based row and 0-based column.
func ParseLabel(label string) (row, position int, err error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("invalid seat label %q", label)
	}
	col := label[len(label)-1]
	position = -1
	for i, c := range columns {
		if c == col {
			position = i
			break
		}
	}
	if position < 0 {
		return 0, 0, fmt.Errorf("invalid seat column in %q", label)
	}
	digits := label[:len(label)-1]
	if digits[0] == '0' {
		return 0, 0, fmt.Errorf("invalid seat row in %q", label)
	}
	row, err = strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid seat row in %q", label)
	}
	return row, position, nil
}

// Contains reports whether label names a seat that exists on a cabin with
// totalSeats seats.
func Contains(totalSeats int, label string) bool {
	row, pos, err := ParseLabel(label)
	if err != nil || row > RowCount(totalSeats) {
		return false
	}
	return (row-1)*SeatsPerRow+pos < totalSeats
}
