package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// FindLiveBySeats returns non-cancelled bookings on flightID holding any of seats.
	FindLiveBySeats(ctx context.Context, flightID int64, seats []string) ([]domain.Booking, error)
	ListBookedSeats(ctx context.Context, flightID int64) ([]domain.BookedSeat, error)
	// CreateBatch inserts one confirmed booking per seat in a single statement.
	CreateBatch(ctx context.Context, userID uuid.UUID, flightID int64, seats []string, bookedAt time.Time) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Booking, error)
	// Cancel marks a booking cancelled. The bool reports whether the row changed
	// state; an already cancelled booking is returned unchanged.
	Cancel(ctx context.Context, id int64) (*domain.Booking, bool, error)
	// CancelMany returns only the bookings that moved from confirmed to cancelled.
	CancelMany(ctx context.Context, ids []int64) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBooking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.PassengerBooking, error)
	ListAll(ctx context.Context) ([]domain.AdminBooking, error)
	PassengerIDs(ctx context.Context, flightID int64) ([]uuid.UUID, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.user_id, b.flight_id, b.seat_number, b.status, b.booking_date, b.created_at, b.updated_at`

func bookingDest(b *domain.Booking) []any {
	return []any{&b.ID, &b.UserID, &b.FlightID, &b.SeatNumber, &b.Status, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt}
}

func (r *PGBookingRepository) queryBookings(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingDest(&b)...); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PGBookingRepository) FindLiveBySeats(ctx context.Context, flightID int64, seats []string) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings b
		WHERE b.flight_id=$1 AND b.seat_number = ANY($2) AND b.status <> $3
		ORDER BY b.seat_number`, flightID, seats, domain.BookingStatusCancelled)
}

func (r *PGBookingRepository) ListBookedSeats(ctx context.Context, flightID int64) ([]domain.BookedSeat, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number, user_id FROM bookings WHERE flight_id=$1 AND status <> $2`, flightID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.BookedSeat, 0)
	for rows.Next() {
		var s domain.BookedSeat
		if err := rows.Scan(&s.SeatNumber, &s.UserID); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func (r *PGBookingRepository) CreateBatch(ctx context.Context, userID uuid.UUID, flightID int64, seats []string, bookedAt time.Time) ([]domain.Booking, error) {
	created, err := r.queryBookings(ctx, `WITH b AS (
			INSERT INTO bookings (user_id, flight_id, seat_number, status, booking_date)
			SELECT $1, $2, s.seat, $4, $5 FROM unnest($3::text[]) AS s(seat)
			RETURNING *
		)
		SELECT `+bookingColumns+` FROM b`, userID, flightID, seats, domain.BookingStatusConfirmed, bookedAt)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return nil, fmt.Errorf("%w: %v", ErrDuplicateSeat, err)
		case pgForeignKeyViolation:
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}

	// Hand rows back in request order.
	bySeat := make(map[string]domain.Booking, len(created))
	for _, b := range created {
		bySeat[b.SeatNumber] = b
	}
	ordered := make([]domain.Booking, 0, len(created))
	for _, s := range seats {
		if b, ok := bySeat[s]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id=$1`, id).Scan(bookingDest(&b)...); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ANY($1) ORDER BY b.id`, ids)
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, bool, error) {
	var b domain.Booking
	err := r.db.QueryRow(ctx, `UPDATE bookings b SET status=$2, updated_at=now()
		WHERE b.id=$1 AND b.status <> $2
		RETURNING `+bookingColumns, id, domain.BookingStatusCancelled).Scan(bookingDest(&b)...)
	if err == nil {
		return &b, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *PGBookingRepository) CancelMany(ctx context.Context, ids []int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `UPDATE bookings b SET status=$2, updated_at=now()
		WHERE b.id = ANY($1) AND b.status <> $2
		RETURNING `+bookingColumns, ids, domain.BookingStatusCancelled)
}

const flightSummaryColumns = `f.flight_number, f.source, f.destination, f.departure_time, f.arrival_time, f.status, f.price_cents`

func flightSummaryDest(s *domain.FlightSummary) []any {
	return []any{&s.FlightNumber, &s.Source, &s.Destination, &s.DepartureTime, &s.ArrivalTime, &s.Status, &s.PriceCents}
}

// ListByUser joins each booking with its flight. Bookings whose flight no
// longer exists drop out through the inner join.
func (r *PGBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, `+flightSummaryColumns+`
		FROM bookings b JOIN flights f ON f.id = b.flight_id
		WHERE b.user_id=$1
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.UserBooking, 0)
	for rows.Next() {
		var ub domain.UserBooking
		dest := append(bookingDest(&ub.Booking), flightSummaryDest(&ub.Flight)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.PassengerBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, p.email
		FROM bookings b JOIN profiles p ON p.id = b.user_id
		WHERE b.flight_id=$1 AND b.status <> $2
		ORDER BY b.seat_number`, flightID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PassengerBooking, 0)
	for rows.Next() {
		var pb domain.PassengerBooking
		if err := rows.Scan(append(bookingDest(&pb.Booking), &pb.Email)...); err != nil {
			return nil, err
		}
		out = append(out, pb)
	}
	return out, rows.Err()
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.AdminBooking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, p.email, `+flightSummaryColumns+`
		FROM bookings b
		JOIN profiles p ON p.id = b.user_id
		JOIN flights f ON f.id = b.flight_id
		ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AdminBooking, 0)
	for rows.Next() {
		var ab domain.AdminBooking
		dest := append(bookingDest(&ab.Booking), &ab.Email)
		dest = append(dest, flightSummaryDest(&ab.Flight)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, ab)
	}
	return out, rows.Err()
}

func (r *PGBookingRepository) PassengerIDs(ctx context.Context, flightID int64) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id FROM bookings WHERE flight_id=$1 AND status <> $2`, flightID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
