package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindLiveBySeats(ctx context.Context, flightID int64, seats []string) ([]domain.Booking, error) {
	args := m.Called(ctx, flightID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBookedSeats(ctx context.Context, flightID int64) ([]domain.BookedSeat, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookedSeat), args.Error(1)
}

func (m *MockBookingRepository) CreateBatch(ctx context.Context, userID uuid.UUID, flightID int64, seats []string, bookedAt time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, flightID, seats, bookedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Booking, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Bool(1), args.Error(2)
}

func (m *MockBookingRepository) CancelMany(ctx context.Context, ids []int64) ([]domain.Booking, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBooking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UserBooking), args.Error(1)
}

func (m *MockBookingRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.PassengerBooking, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.PassengerBooking), args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]domain.AdminBooking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AdminBooking), args.Error(1)
}

func (m *MockBookingRepository) PassengerIDs(ctx context.Context, flightID int64) ([]uuid.UUID, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockCounterStore struct {
	mock.Mock
}

func (m *MockCounterStore) AdjustSeatsAtomic(ctx context.Context, flightID int64, delta int) error {
	args := m.Called(ctx, flightID, delta)
	return args.Error(0)
}

func (m *MockCounterStore) GetSeatCounts(ctx context.Context, flightID int64) (int, int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockCounterStore) SetAvailableSeats(ctx context.Context, flightID int64, available int) error {
	args := m.Called(ctx, flightID, available)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}
