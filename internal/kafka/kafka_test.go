package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleMessage_DecodesEvent(t *testing.T) {
	want := BookingEvent{
		Type:       EventBookingCreated,
		UserID:     uuid.New(),
		FlightID:   7,
		BookingIDs: []int64{1, 2},
		Seats:      []string{"1A", "1B"},
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	var got BookingEvent
	err = HandleMessage(context.Background(), kafka.Message{Value: payload}, func(_ context.Context, e BookingEvent) error {
		got = e
		return nil
	}, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHandleMessage_SkipsGarbage(t *testing.T) {
	called := false
	err := HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")}, func(context.Context, BookingEvent) error {
		called = true
		return nil
	}, zap.NewNop())

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessage_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"type":"booking_cancelled"}`)}, func(context.Context, BookingEvent) error {
		return boom
	}, zap.NewNop())

	assert.ErrorIs(t, err, boom)
}

func TestNewProducer(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, nil)
	assert.NotNil(t, p.writer)
	assert.NoError(t, p.Close())
}
