package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingEvent(userID string, seat string) Event {
	return Event{Table: TableBookings, Type: OpInsert, New: Row{"user_id": userID, "seat_number": seat}}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"table":"flights","type":"UPDATE","new":{"id":7,"available_seats":3},"old":{"id":7,"available_seats":5}}`))
	require.NoError(t, err)

	assert.Equal(t, TableFlights, ev.Table)
	assert.Equal(t, OpUpdate, ev.Type)
	assert.True(t, Filter{Table: TableFlights, Column: "id", Value: "7"}.Match(ev))

	_, err = ParseEvent([]byte(`{"type":"INSERT"}`))
	assert.Error(t, err)
	_, err = ParseEvent([]byte(`nope`))
	assert.Error(t, err)
}

func TestFilter_Match(t *testing.T) {
	ev := bookingEvent("u1", "1A")

	assert.True(t, Filter{Table: TableBookings}.Match(ev))
	assert.False(t, Filter{Table: TableFlights}.Match(ev))
	assert.True(t, Filter{Table: TableBookings, Column: "user_id", Value: "u1"}.Match(ev))
	assert.False(t, Filter{Table: TableBookings, Column: "user_id", Value: "u2"}.Match(ev))
	assert.False(t, Filter{Table: TableBookings, Column: "missing", Value: "x"}.Match(ev))

	deleted := Event{Table: TableBookings, Type: OpDelete, Old: Row{"user_id": "u1"}}
	assert.True(t, Filter{Table: TableBookings, Column: "user_id", Value: "u1"}.Match(deleted))
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{Table: TableNotifications, Column: "user_id", Value: "x"}.Validate())
	assert.Error(t, Filter{Table: "profiles"}.Validate())
	assert.Error(t, Filter{Table: TableFlights, Column: "id"}.Validate())
}

func TestHub_DeliversInOrderToMatchingSubscribers(t *testing.T) {
	hub := NewHub(8, nil)
	mine, err := hub.Subscribe(Filter{Table: TableBookings, Column: "user_id", Value: "u1"})
	require.NoError(t, err)
	defer mine.Close()
	flights, err := hub.Subscribe(Filter{Table: TableFlights})
	require.NoError(t, err)
	defer flights.Close()

	hub.Publish(bookingEvent("u1", "1A"))
	hub.Publish(bookingEvent("u2", "1B"))
	hub.Publish(bookingEvent("u1", "1C"))

	assert.Equal(t, "1A", (<-mine.Events()).New["seat_number"])
	assert.Equal(t, "1C", (<-mine.Events()).New["seat_number"])
	assert.Len(t, mine.Events(), 0)
	assert.Len(t, flights.Events(), 0)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub(1, nil)
	slow, err := hub.Subscribe(Filter{Table: TableBookings})
	require.NoError(t, err)

	hub.Publish(bookingEvent("u1", "1A"))
	hub.Publish(bookingEvent("u1", "1B"))

	_, ok := <-slow.Events()
	assert.True(t, ok, "buffered event still delivered")
	_, ok = <-slow.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, slow.Err(), ErrSlowSubscriber)
	assert.Equal(t, 0, hub.Len())
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	hub := NewHub(4, nil)
	sub, err := hub.Subscribe(Filter{Table: TableFlights})
	require.NoError(t, err)

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Err())
	assert.Equal(t, 0, hub.Len())

	hub.Publish(Event{Table: TableFlights, Type: OpUpdate})
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(4, nil)
	sub, err := hub.Subscribe(Filter{Table: TableFlights})
	require.NoError(t, err)

	hub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.ErrorIs(t, sub.Err(), ErrHubClosed)

	_, err = hub.Subscribe(Filter{Table: TableFlights})
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestWatch_ReleasesOnReturn(t *testing.T) {
	hub := NewHub(4, nil)
	stop := errors.New("stop")

	done := make(chan error, 1)
	go func() {
		done <- hub.Watch(context.Background(), Filter{Table: TableFlights}, func(ev Event) error {
			return stop
		})
	}()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, time.Millisecond)
	hub.Publish(Event{Table: TableFlights, Type: OpUpdate})

	assert.ErrorIs(t, <-done, stop)
	assert.Equal(t, 0, hub.Len())
}

func TestWatch_ContextCancel(t *testing.T) {
	hub := NewHub(4, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- hub.Watch(ctx, Filter{Table: TableFlights}, func(Event) error { return nil })
	}()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, hub.Len())
}
