package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationUseCase interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
	HandleEvent(ctx context.Context, event kafka.BookingEvent) error
}

// Passengers resolves who is booked on a flight.
type Passengers interface {
	PassengerIDs(ctx context.Context, flightID int64) ([]uuid.UUID, error)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	passengers Passengers
	log        *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, passengers Passengers, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{repo: repo, passengers: passengers, log: log}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) Create(ctx context.Context, n *domain.Notification) error {
	if n.UserID == uuid.Nil {
		return domain.NewValidationError("user_id", "is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return domain.NewValidationError("title", "is required")
	}
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}
	switch n.Type {
	case domain.NotificationInfo, domain.NotificationSuccess, domain.NotificationWarning, domain.NotificationError:
	default:
		return domain.NewValidationError("type", "unknown notification type %q", n.Type)
	}
	return s.repo.Create(ctx, n)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

// HandleEvent turns a booking event into notification rows. Unknown event
// types are ignored.
func (s *NotificationService) HandleEvent(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case kafka.EventBookingCreated, kafka.EventBookingCancelled:
		if event.UserID == uuid.Nil {
			return nil
		}
		return s.Create(ctx, bookingNotice(event))
	case kafka.EventFlightStatusChanged:
		return s.notifyPassengers(ctx, event)
	default:
		s.log.Debug("ignoring event", zap.String("type", event.Type))
		return nil
	}
}

func (s *NotificationService) notifyPassengers(ctx context.Context, event kafka.BookingEvent) error {
	ids, err := s.passengers.PassengerIDs(ctx, event.FlightID)
	if err != nil {
		return fmt.Errorf("list passengers of flight %d: %w", event.FlightID, err)
	}

	var errs []error
	for _, userID := range ids {
		n := statusNotice(event)
		n.UserID = userID
		if err := s.Create(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	s.log.Info("flight status notifications sent",
		zap.Int64("flight_id", event.FlightID),
		zap.String("status", event.FlightStatus),
		zap.Int("passengers", len(ids)),
		zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func flightName(event kafka.BookingEvent) string {
	if event.FlightNumber != "" {
		return event.FlightNumber
	}
	return fmt.Sprintf("#%d", event.FlightID)
}

func seatList(seats []string) string {
	if len(seats) == 1 {
		return "Seat " + seats[0]
	}
	return "Seats " + strings.Join(seats, ", ")
}

func bookingNotice(event kafka.BookingEvent) *domain.Notification {
	flightID := event.FlightID
	n := &domain.Notification{UserID: event.UserID, FlightID: &flightID}
	if event.Type == kafka.EventBookingCreated {
		n.Type = domain.NotificationSuccess
		n.Title = "Booking confirmed"
		n.Message = fmt.Sprintf("%s on flight %s confirmed.", seatList(event.Seats), flightName(event))
	} else {
		n.Type = domain.NotificationWarning
		n.Title = "Booking cancelled"
		n.Message = fmt.Sprintf("%s on flight %s cancelled.", seatList(event.Seats), flightName(event))
	}
	return n
}

func statusNotice(event kafka.BookingEvent) *domain.Notification {
	flightID := event.FlightID
	status := domain.FlightStatus(event.FlightStatus)

	label := event.FlightStatus
	if d, ok := status.Display(); ok {
		label = d.Label
	}

	typ := domain.NotificationInfo
	switch status {
	case domain.FlightStatusDelayed:
		typ = domain.NotificationWarning
	case domain.FlightStatusCancelled:
		typ = domain.NotificationError
	}

	return &domain.Notification{
		FlightID: &flightID,
		Type:     typ,
		Title:    fmt.Sprintf("Flight %s: %s", flightName(event), label),
		Message:  fmt.Sprintf("The status of flight %s changed to %s.", flightName(event), label),
	}
}

var _ NotificationUseCase = (*NotificationService)(nil)
