package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/seatmap"
	"github.com/Domenick1991/flightbooking/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id int64, actor domain.Identity) (*domain.Booking, error)
	CancelBookings(ctx context.Context, ids []int64, actor domain.Identity) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64, actor domain.Identity) (*domain.Booking, error)
	BookedSeats(ctx context.Context, flightID int64) ([]domain.BookedSeat, error)
	UserBookings(ctx context.Context, userID uuid.UUID) ([]domain.UserBooking, error)
	FlightBookings(ctx context.Context, flightID int64) ([]domain.PassengerBooking, error)
	AllBookings(ctx context.Context) ([]domain.AdminBooking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type CreateBookingInput struct {
	UserID   uuid.UUID `json:"-"`
	FlightID int64     `json:"flight_id"`
	Seats    []string  `json:"seats"`
}

type BookingService struct {
	bookings repository.BookingRepository
	counter  *SeatCounter
	cache    FlightsCache
	producer Producer
	topic    string
	log      *zap.Logger
	now      func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithLogger(log *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func WithCache(cache FlightsCache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(bookings repository.BookingRepository, counters CounterStore, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	service.counter = NewSeatCounter(counters, service.log)
	return service
}

// CreateBooking books every requested seat or none of them. Duplicate labels
// in the request are collapsed, first occurrence wins. A failed counter update
// is logged and does not undo the booking.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.create", trace.WithAttributes(
		attribute.Int64("flight_id", input.FlightID),
		attribute.String("user_id", input.UserID.String()),
	))
	defer span.End()

	seats, err := s.validate(ctx, input)
	if err != nil {
		return nil, fail(span, err)
	}

	if err := s.checkCollisions(ctx, input.FlightID, seats); err != nil {
		return nil, fail(span, err)
	}

	created, err := s.insert(ctx, input.UserID, input.FlightID, seats)
	if err != nil {
		return nil, fail(span, err)
	}

	s.adjust(ctx, input.FlightID, -len(created))
	s.invalidate(ctx)
	s.publish(ctx, kafka.EventBookingCreated, input.UserID, input.FlightID, created)

	span.SetAttributes(attribute.Int("seats", len(created)))
	return created, nil
}

func (s *BookingService) validate(ctx context.Context, input CreateBookingInput) ([]string, error) {
	_, span := telemetry.StartSpan(ctx, "booking.validate")
	defer span.End()

	if input.UserID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if input.FlightID <= 0 {
		return nil, domain.NewValidationError("flight_id", "must be positive")
	}
	seats := seatmap.Normalize(input.Seats)
	if len(seats) == 0 {
		return nil, domain.NewValidationError("seats", "at least one seat must be selected")
	}
	for _, label := range seats {
		if _, _, err := seatmap.ParseLabel(label); err != nil {
			return nil, domain.NewValidationError("seats", "%v", err)
		}
	}
	return seats, nil
}

func (s *BookingService) checkCollisions(ctx context.Context, flightID int64, seats []string) error {
	ctx, span := telemetry.StartSpan(ctx, "booking.collision_check")
	defer span.End()

	live, err := s.bookings.FindLiveBySeats(ctx, flightID, seats)
	if err != nil {
		return fmt.Errorf("check seats: %w", err)
	}
	if len(live) > 0 {
		return conflictFrom(live)
	}
	return nil
}

func (s *BookingService) insert(ctx context.Context, userID uuid.UUID, flightID int64, seats []string) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.insert")
	defer span.End()

	created, err := s.bookings.CreateBatch(ctx, userID, flightID, seats, s.now())
	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, repository.ErrDuplicateSeat):
		// Lost the race to another booking after the collision check.
		live, qErr := s.bookings.FindLiveBySeats(ctx, flightID, seats)
		if qErr != nil || len(live) == 0 {
			return nil, &domain.SeatConflictError{Seats: seats}
		}
		return nil, conflictFrom(live)
	case errors.Is(err, repository.ErrNotFound):
		return nil, domain.ErrNotFound
	default:
		return nil, &domain.InsertFailureError{Cause: err}
	}
}

func conflictFrom(live []domain.Booking) *domain.SeatConflictError {
	labels := make([]string, 0, len(live))
	for _, b := range live {
		labels = append(labels, b.SeatNumber)
	}
	return &domain.SeatConflictError{Seats: seatmap.Normalize(labels)}
}

// CancelBooking is idempotent: cancelling a cancelled booking returns it as is
// and leaves the counter alone.
func (s *BookingService) CancelBooking(ctx context.Context, id int64, actor domain.Identity) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.cancel", trace.WithAttributes(attribute.Int64("booking_id", id)))
	defer span.End()

	current, err := s.GetBooking(ctx, id, actor)
	if err != nil {
		return nil, fail(span, err)
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}

	cancelled, changed, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, fail(span, notFound(err))
	}
	if !changed {
		return cancelled, nil
	}

	s.adjust(ctx, cancelled.FlightID, 1)
	s.invalidate(ctx)
	s.publish(ctx, kafka.EventBookingCancelled, cancelled.UserID, cancelled.FlightID, []domain.Booking{*cancelled})
	return cancelled, nil
}

// CancelBookings cancels a batch and adjusts each affected flight's counter
// once, by the number of seats released on it.
func (s *BookingService) CancelBookings(ctx context.Context, ids []int64, actor domain.Identity) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.cancel_many", trace.WithAttributes(attribute.Int("requested", len(ids))))
	defer span.End()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fail(span, domain.NewValidationError("booking_ids", "at least one booking id is required"))
	}

	existing, err := s.bookings.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fail(span, err)
	}
	if len(existing) != len(ids) {
		return nil, fail(span, domain.ErrNotFound)
	}
	for _, b := range existing {
		if !canAccess(actor, b) {
			return nil, fail(span, domain.ErrForbidden)
		}
	}

	cancelled, err := s.bookings.CancelMany(ctx, ids)
	if err != nil {
		return nil, fail(span, err)
	}
	if len(cancelled) == 0 {
		return cancelled, nil
	}

	for _, g := range groupByFlight(cancelled) {
		s.adjust(ctx, g.flightID, len(g.bookings))
	}
	s.invalidate(ctx)
	for _, g := range groupByOwner(cancelled) {
		s.publish(ctx, kafka.EventBookingCancelled, g.userID, g.flightID, g.bookings)
	}

	span.SetAttributes(attribute.Int("cancelled", len(cancelled)))
	return cancelled, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64, actor domain.Identity) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !canAccess(actor, *b) {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s *BookingService) BookedSeats(ctx context.Context, flightID int64) ([]domain.BookedSeat, error) {
	return s.bookings.ListBookedSeats(ctx, flightID)
}

func (s *BookingService) UserBookings(ctx context.Context, userID uuid.UUID) ([]domain.UserBooking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) FlightBookings(ctx context.Context, flightID int64) ([]domain.PassengerBooking, error) {
	return s.bookings.ListByFlight(ctx, flightID)
}

func (s *BookingService) AllBookings(ctx context.Context) ([]domain.AdminBooking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) adjust(ctx context.Context, flightID int64, delta int) {
	ctx, span := telemetry.StartSpan(ctx, "booking.adjust_counter", trace.WithAttributes(
		attribute.Int64("flight_id", flightID),
		attribute.Int("delta", delta),
	))
	defer span.End()

	if err := s.counter.Adjust(ctx, flightID, delta); err != nil {
		span.RecordError(err)
		s.log.Warn("available seat counter not updated",
			zap.Int64("flight_id", flightID),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}

func (s *BookingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("failed to invalidate flights cache", zap.Error(err))
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, userID uuid.UUID, flightID int64, bookings []domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		UserID:     userID,
		FlightID:   flightID,
		BookingIDs: make([]int64, 0, len(bookings)),
		Seats:      make([]string, 0, len(bookings)),
		OccurredAt: s.now(),
	}
	for _, b := range bookings {
		event.BookingIDs = append(event.BookingIDs, b.ID)
		event.Seats = append(event.Seats, b.SeatNumber)
	}
	if err := s.producer.Publish(ctx, s.topic, strconv.FormatInt(flightID, 10), event); err != nil {
		s.log.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.Int64("flight_id", flightID),
			zap.Error(err))
	}
}

func canAccess(actor domain.Identity, b domain.Booking) bool {
	return actor.IsAdmin() || actor.UserID == b.UserID
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type flightGroup struct {
	flightID int64
	bookings []domain.Booking
}

func groupByFlight(bookings []domain.Booking) []flightGroup {
	index := map[int64]int{}
	groups := make([]flightGroup, 0)
	for _, b := range bookings {
		i, ok := index[b.FlightID]
		if !ok {
			i = len(groups)
			index[b.FlightID] = i
			groups = append(groups, flightGroup{flightID: b.FlightID})
		}
		groups[i].bookings = append(groups[i].bookings, b)
	}
	return groups
}

type ownerGroup struct {
	userID   uuid.UUID
	flightID int64
	bookings []domain.Booking
}

func groupByOwner(bookings []domain.Booking) []ownerGroup {
	type key struct {
		user   uuid.UUID
		flight int64
	}
	index := map[key]int{}
	groups := make([]ownerGroup, 0)
	for _, b := range bookings {
		k := key{b.UserID, b.FlightID}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, ownerGroup{userID: b.UserID, flightID: b.FlightID})
		}
		groups[i].bookings = append(groups[i].bookings, b)
	}
	return groups
}

var _ BookingUseCase = (*BookingService)(nil)
