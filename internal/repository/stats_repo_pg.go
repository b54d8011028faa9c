package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository is read-only aggregation for the admin dashboard.
type StatsRepository interface {
	CountProfiles(ctx context.Context) (int64, error)
	CountFlightsByStatus(ctx context.Context, status domain.FlightStatus) (int64, error)
	CountLiveBookingsCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	// RevenueJoined sums flight prices over live bookings with a single join.
	RevenueJoined(ctx context.Context) (int64, error)
	// LiveBookingFlightIDs returns the flight id of every live booking, one entry per booking.
	LiveBookingFlightIDs(ctx context.Context) ([]int64, error)
	FlightPrices(ctx context.Context, ids []int64) (map[int64]int64, error)
}

type PGStatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &PGStatsRepository{db: db}
}

func (r *PGStatsRepository) count(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

func (r *PGStatsRepository) CountProfiles(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM profiles`)
}

func (r *PGStatsRepository) CountFlightsByStatus(ctx context.Context, status domain.FlightStatus) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM flights WHERE status=$1`, status)
}

func (r *PGStatsRepository) CountLiveBookingsCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM bookings WHERE created_at >= $1 AND created_at < $2 AND status <> $3`,
		from, to, domain.BookingStatusCancelled)
}

func (r *PGStatsRepository) RevenueJoined(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COALESCE(SUM(f.price_cents), 0)::bigint
		FROM bookings b JOIN flights f ON f.id = b.flight_id
		WHERE b.status <> $1`, domain.BookingStatusCancelled)
}

func (r *PGStatsRepository) LiveBookingFlightIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT flight_id FROM bookings WHERE status <> $1`, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGStatsRepository) FlightPrices(ctx context.Context, ids []int64) (map[int64]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id, price_cents FROM flights WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, price int64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

var _ StatsRepository = (*PGStatsRepository)(nil)
