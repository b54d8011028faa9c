package seatmap

import (
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RowCountsAndSizes(t *testing.T) {
	for total := 0; total <= 40; total++ {
		rows := Generate(total, nil, nil, uuid.Nil)

		wantRows := (total + 5) / 6
		assert.Len(t, rows, wantRows, "total=%d", total)

		sum := 0
		for _, r := range rows {
			assert.LessOrEqual(t, len(r), SeatsPerRow)
			sum += len(r)
		}
		assert.Equal(t, total, sum, "total=%d", total)
	}
}

func TestGenerate_PartialRowKeepsLeadingColumns(t *testing.T) {
	rows := Generate(8, nil, nil, uuid.Nil)
	require.Len(t, rows, 2)

	labels := []string{}
	for _, s := range rows[1] {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"2A", "2B"}, labels)
}

func TestGenerate_PositionKinds(t *testing.T) {
	rows := Generate(6, nil, nil, uuid.Nil)
	require.Len(t, rows, 1)

	want := []Kind{KindWindow, KindMiddle, KindAisle, KindAisle, KindMiddle, KindWindow}
	for i, s := range rows[0] {
		assert.Equal(t, want[i], s.Kind, s.Label)
		assert.Equal(t, i, s.Position)
		assert.Equal(t, 1, s.Row)
	}
	assert.Equal(t, "1F", rows[0][5].Label)
}

func TestGenerate_States(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	occ := NewOccupancy([]domain.BookedSeat{
		{SeatNumber: "1A", UserID: me},
		{SeatNumber: "1B", UserID: other},
	})

	rows := Generate(12, occ, []string{"1C", "2F", "1B"}, me)

	states := map[string]State{}
	for _, r := range rows {
		for _, s := range r {
			states[s.Label] = s.State
		}
	}

	assert.Equal(t, StateBookedBySelf, states["1A"])
	assert.Equal(t, StateBookedByOther, states["1B"], "booked wins over a stale selection")
	assert.Equal(t, StateSelected, states["1C"])
	assert.Equal(t, StateSelected, states["2F"])
	assert.Equal(t, StateAvailable, states["2A"])
	assert.Len(t, states, 12)
}

func TestGenerate_Deterministic(t *testing.T) {
	me := uuid.New()
	occ := NewOccupancy([]domain.BookedSeat{{SeatNumber: "3D", UserID: uuid.New()}})
	selected := []string{"1A", "4B"}

	assert.Equal(t, Generate(23, occ, selected, me), Generate(23, occ, selected, me))
}

func TestGenerate_NonPositive(t *testing.T) {
	assert.Empty(t, Generate(0, nil, nil, uuid.Nil))
	assert.Empty(t, Generate(-3, nil, nil, uuid.Nil))
	assert.Equal(t, 0, RowCount(-1))
}

func TestParseLabel(t *testing.T) {
	row, pos, err := ParseLabel("14C")
	require.NoError(t, err)
	assert.Equal(t, 14, row)
	assert.Equal(t, 2, pos)

	for _, bad := range []string{"", "A", "1G", "0A", "01A", "xA", "-1A"} {
		_, _, err := ParseLabel(bad)
		assert.Error(t, err, bad)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(8, "1F"))
	assert.True(t, Contains(8, "2B"))
	assert.False(t, Contains(8, "2C"))
	assert.False(t, Contains(8, "3A"))
	assert.False(t, Contains(8, "bogus"))
	assert.False(t, Contains(10, "3074457345618258604A"))
	assert.False(t, Contains(0, "1A"))
}
