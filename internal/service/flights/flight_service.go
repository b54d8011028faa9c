package flights

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	ListAll(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, source, destination string) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// FlightInput is the editable part of a flight. An empty Status means active.
type FlightInput struct {
	FlightNumber  string              `json:"flight_number"`
	Source        string              `json:"source"`
	Destination   string              `json:"destination"`
	DepartureTime time.Time           `json:"departure_time"`
	ArrivalTime   time.Time           `json:"arrival_time"`
	TotalSeats    int                 `json:"total_seats"`
	PriceCents    int64               `json:"price_cents"`
	Status        domain.FlightStatus `json:"status,omitempty"`
}

type FlightService struct {
	repo     repository.FlightRepository
	cache    FlightCache
	producer Producer
	topic    string
	log      *zap.Logger
	now      func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithLogger(log *zap.Logger) FlightServiceOption {
	return func(s *FlightService) {
		if log != nil {
			s.log = log
		}
	}
}

func WithProducer(producer Producer, topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{repo: repo, cache: cache, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns active flights, served from the cache when it holds them.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Debug("flights cache read failed", zap.Error(err))
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Debug("flights cache write failed", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) ListAll(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.ListAll(ctx)
}

// Search filters active flights by route. An empty value or "all" leaves that
// side of the route open.
func (s *FlightService) Search(ctx context.Context, source, destination string) ([]domain.Flight, error) {
	return s.repo.Search(ctx, repository.FlightFilter{
		Source:      routeFilter(source),
		Destination: routeFilter(destination),
	})
}

func routeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	flight := input.toFlight()
	flight.AvailableSeats = flight.TotalSeats
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

// Update rewrites a flight. available_seats follows a change of total_seats
// and never leaves [0, total_seats].
func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	flight := input.toFlight()
	flight.ID = id
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown flight status %q", status)
	}
	flight, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.publishStatus(ctx, flight)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("failed to invalidate flights cache", zap.Error(err))
	}
}

func (s *FlightService) publishStatus(ctx context.Context, flight *domain.Flight) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:         kafka.EventFlightStatusChanged,
		FlightID:     flight.ID,
		FlightNumber: flight.FlightNumber,
		FlightStatus: string(flight.Status),
		OccurredAt:   s.now(),
	}
	if err := s.producer.Publish(ctx, s.topic, strconv.FormatInt(flight.ID, 10), event); err != nil {
		s.log.Warn("failed to publish flight status event", zap.Int64("flight_id", flight.ID), zap.Error(err))
	}
}

func (in FlightInput) Validate() error {
	switch {
	case strings.TrimSpace(in.FlightNumber) == "":
		return domain.NewValidationError("flight_number", "is required")
	case strings.TrimSpace(in.Source) == "":
		return domain.NewValidationError("source", "is required")
	case strings.TrimSpace(in.Destination) == "":
		return domain.NewValidationError("destination", "is required")
	case in.DepartureTime.IsZero():
		return domain.NewValidationError("departure_time", "is required")
	case in.ArrivalTime.IsZero():
		return domain.NewValidationError("arrival_time", "is required")
	case in.TotalSeats <= 0:
		return domain.NewValidationError("total_seats", "must be greater than 0")
	case in.PriceCents <= 0:
		return domain.NewValidationError("price_cents", "must be greater than 0")
	case strings.EqualFold(strings.TrimSpace(in.Source), strings.TrimSpace(in.Destination)):
		return domain.NewValidationError("destination", "must differ from source")
	case !in.ArrivalTime.After(in.DepartureTime):
		return domain.NewValidationError("arrival_time", "must be after departure time")
	case in.Status != "" && !in.Status.Valid():
		return domain.NewValidationError("status", "unknown flight status %q", in.Status)
	}
	return nil
}

func (in FlightInput) toFlight() *domain.Flight {
	status := in.Status
	if status == "" {
		status = domain.FlightStatusActive
	}
	return &domain.Flight{
		FlightNumber:  strings.ToUpper(strings.TrimSpace(in.FlightNumber)),
		Source:        strings.TrimSpace(in.Source),
		Destination:   strings.TrimSpace(in.Destination),
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
		TotalSeats:    in.TotalSeats,
		PriceCents:    in.PriceCents,
		Status:        status,
	}
}

var _ FlightUseCase = (*FlightService)(nil)
