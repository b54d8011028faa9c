package booking

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"go.uber.org/zap"
)

// CounterStore is the part of the flight repository that owns available_seats.
type CounterStore interface {
	AdjustSeatsAtomic(ctx context.Context, flightID int64, delta int) error
	GetSeatCounts(ctx context.Context, flightID int64) (available, total int, err error)
	SetAvailableSeats(ctx context.Context, flightID int64, available int) error
}

var _ CounterStore = (repository.FlightRepository)(nil)

// SeatCounter moves a flight's available_seats. The atomic procedure is tried
// first; when it is missing or fails, the counter is read, shifted and written
// back. The fallback is last-writer-wins and can lose concurrent updates.
type SeatCounter struct {
	store CounterStore
	log   *zap.Logger
}

func NewSeatCounter(store CounterStore, log *zap.Logger) *SeatCounter {
	if log == nil {
		log = zap.NewNop()
	}
	return &SeatCounter{store: store, log: log}
}

func (c *SeatCounter) Adjust(ctx context.Context, flightID int64, delta int) error {
	if delta == 0 {
		return nil
	}

	atomicErr := c.store.AdjustSeatsAtomic(ctx, flightID, delta)
	if atomicErr == nil {
		return nil
	}
	if errors.Is(atomicErr, repository.ErrProcedureMissing) {
		c.log.Info("seat procedure missing, using read-modify-write",
			zap.Int64("flight_id", flightID), zap.Int("delta", delta))
	} else {
		c.log.Warn("atomic seat adjust failed, using read-modify-write",
			zap.Int64("flight_id", flightID), zap.Int("delta", delta), zap.Error(atomicErr))
	}

	available, total, err := c.store.GetSeatCounts(ctx, flightID)
	if err != nil {
		return &domain.CounterAdjustError{FlightID: flightID, Delta: delta, Cause: errors.Join(atomicErr, err)}
	}

	next := min(max(available+delta, 0), total)
	if err := c.store.SetAvailableSeats(ctx, flightID, next); err != nil {
		return &domain.CounterAdjustError{FlightID: flightID, Delta: delta, Cause: errors.Join(atomicErr, err)}
	}
	return nil
}
