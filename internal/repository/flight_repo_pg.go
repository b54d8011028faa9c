package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightFilter struct {
	Source      string
	Destination string
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	ListAll(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error

	// AdjustSeatsAtomic moves available_seats by delta through the server-side
	// procedures. It returns ErrProcedureMissing when they are not installed.
	AdjustSeatsAtomic(ctx context.Context, flightID int64, delta int) error
	GetSeatCounts(ctx context.Context, flightID int64) (available, total int, err error)
	SetAvailableSeats(ctx context.Context, flightID int64, available int) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, source, destination, departure_time, arrival_time, total_seats, available_seats, price_cents, status, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Source, &f.Destination, &f.DepartureTime, &f.ArrivalTime,
		&f.TotalSeats, &f.AvailableSeats, &f.PriceCents, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE status = $1 ORDER BY departure_time`, domain.FlightStatusActive)
}

func (r *PGFlightRepository) ListAll(ctx context.Context) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
}

func (r *PGFlightRepository) Search(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	where := []string{"status = $1"}
	args := []any{domain.FlightStatusActive}
	if filter.Source != "" {
		args = append(args, filter.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		where = append(where, fmt.Sprintf("destination = $%d", len(args)))
	}
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE `+strings.Join(where, " AND ")+` ORDER BY departure_time`, args...)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, source, destination, departure_time, arrival_time, total_seats, available_seats, price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		f.FlightNumber, f.Source, f.Destination, f.DepartureTime, f.ArrivalTime, f.TotalSeats, f.AvailableSeats, f.PriceCents, f.Status).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// Update rewrites the editable columns. A change of total_seats shifts
// available_seats by the same amount, kept inside [0, total_seats].
func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	row := r.db.QueryRow(ctx, `UPDATE flights SET
			flight_number=$2, source=$3, destination=$4, departure_time=$5, arrival_time=$6,
			available_seats = GREATEST(LEAST(available_seats + ($7 - total_seats), $7), 0),
			total_seats=$7, price_cents=$8, status=$9, updated_at=now()
		WHERE id=$1
		RETURNING `+flightColumns,
		f.ID, f.FlightNumber, f.Source, f.Destination, f.DepartureTime, f.ArrivalTime, f.TotalSeats, f.PriceCents, f.Status)
	updated, err := scanFlight(row)
	if err != nil {
		return notFound(err)
	}
	*f = *updated
	return nil
}

func (r *PGFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `UPDATE flights SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+flightColumns, id, status))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) AdjustSeatsAtomic(ctx context.Context, flightID int64, delta int) error {
	var err error
	switch {
	case delta == 0:
		return nil
	case delta < 0:
		_, err = r.db.Exec(ctx, `SELECT decrement_available_seats_multiple($1::bigint, $2::integer)`, flightID, -delta)
	case delta == 1:
		_, err = r.db.Exec(ctx, `SELECT increment_available_seats($1::bigint)`, flightID)
	default:
		_, err = r.db.Exec(ctx, `SELECT increment_available_seats_multiple($1::bigint, $2::integer)`, flightID, delta)
	}
	if err != nil && pgCode(err) == pgUndefinedFunction {
		return fmt.Errorf("%w: %v", ErrProcedureMissing, err)
	}
	return err
}

func (r *PGFlightRepository) GetSeatCounts(ctx context.Context, flightID int64) (int, int, error) {
	var available, total int
	if err := r.db.QueryRow(ctx, `SELECT available_seats, total_seats FROM flights WHERE id=$1`, flightID).Scan(&available, &total); err != nil {
		return 0, 0, notFound(err)
	}
	return available, total, nil
}

func (r *PGFlightRepository) SetAvailableSeats(ctx context.Context, flightID int64, available int) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET available_seats=$2, updated_at=now() WHERE id=$1`, flightID, available)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
