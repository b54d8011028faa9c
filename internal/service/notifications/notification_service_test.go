package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockPassengers struct {
	mock.Mock
}

func (m *MockPassengers) PassengerIDs(ctx context.Context, flightID int64) ([]uuid.UUID, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func TestHandleEvent_BookingCreated(t *testing.T) {
	repo := new(MockNotificationRepository)
	user := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == user &&
			n.Type == domain.NotificationSuccess &&
			n.Message == "Seats 1A, 1B on flight #7 confirmed." &&
			*n.FlightID == 7
	})).Return(nil).Once()

	err := NewNotificationService(repo, nil, nil).HandleEvent(context.Background(), kafka.BookingEvent{
		Type: kafka.EventBookingCreated, UserID: user, FlightID: 7, Seats: []string{"1A", "1B"},
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestHandleEvent_BookingCancelled(t *testing.T) {
	repo := new(MockNotificationRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotificationWarning && n.Message == "Seat 3C on flight #9 cancelled."
	})).Return(nil).Once()

	err := NewNotificationService(repo, nil, nil).HandleEvent(context.Background(), kafka.BookingEvent{
		Type: kafka.EventBookingCancelled, UserID: uuid.New(), FlightID: 9, Seats: []string{"3C"},
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestHandleEvent_FlightStatusFansOut(t *testing.T) {
	tests := []struct {
		status string
		want   domain.NotificationType
	}{
		{"delayed", domain.NotificationWarning},
		{"cancelled", domain.NotificationError},
		{"completed", domain.NotificationInfo},
		{"active", domain.NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			repo := new(MockNotificationRepository)
			passengers := new(MockPassengers)
			p1, p2 := uuid.New(), uuid.New()
			passengers.On("PassengerIDs", mock.Anything, int64(4)).Return([]uuid.UUID{p1, p2}, nil)
			repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
				return n.Type == tt.want && (n.UserID == p1 || n.UserID == p2)
			})).Return(nil).Twice()

			err := NewNotificationService(repo, passengers, nil).HandleEvent(context.Background(), kafka.BookingEvent{
				Type: kafka.EventFlightStatusChanged, FlightID: 4, FlightNumber: "FB204", FlightStatus: tt.status,
			})

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestHandleEvent_FlightStatusPartialFailure(t *testing.T) {
	repo := new(MockNotificationRepository)
	passengers := new(MockPassengers)
	p1, p2 := uuid.New(), uuid.New()
	boom := errors.New("insert failed")
	passengers.On("PassengerIDs", mock.Anything, int64(4)).Return([]uuid.UUID{p1, p2}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool { return n.UserID == p1 })).Return(boom)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool { return n.UserID == p2 })).Return(nil)

	err := NewNotificationService(repo, passengers, nil).HandleEvent(context.Background(), kafka.BookingEvent{
		Type: kafka.EventFlightStatusChanged, FlightID: 4, FlightStatus: "delayed",
	})

	assert.ErrorIs(t, err, boom)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestHandleEvent_UnknownTypeIgnored(t *testing.T) {
	repo := new(MockNotificationRepository)

	err := NewNotificationService(repo, nil, nil).HandleEvent(context.Background(), kafka.BookingEvent{Type: "booking_expired"})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	repo := new(MockNotificationRepository)
	s := NewNotificationService(repo, nil, nil)

	assert.True(t, domain.IsValidation(s.Create(context.Background(), &domain.Notification{Title: "x"})))
	assert.True(t, domain.IsValidation(s.Create(context.Background(), &domain.Notification{UserID: uuid.New()})))
	assert.True(t, domain.IsValidation(s.Create(context.Background(), &domain.Notification{UserID: uuid.New(), Title: "x", Type: "loud"})))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotificationInfo
	})).Return(nil).Once()
	assert.NoError(t, s.Create(context.Background(), &domain.Notification{UserID: uuid.New(), Title: "hello"}))
	repo.AssertExpectations(t)
}
