package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewBookingRepository(pool))
	assert.NotNil(t, NewProfileRepository(pool))
	assert.NotNil(t, NewNotificationRepository(pool))
	assert.NotNil(t, NewStatsRepository(pool))
}

func TestPgCode(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})
	assert.Equal(t, pgUniqueViolation, pgCode(err))
	assert.Equal(t, "", pgCode(errors.New("plain")))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, notFound(other))
}

func TestMigrationsEmbedded(t *testing.T) {
	script, err := migrations.ReadFile("migrations/001_init.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(script), "bookings_live_seat_uidx")
	assert.Contains(t, string(script), "decrement_available_seats_multiple")
	assert.Contains(t, string(script), "pg_notify('row_changes'")
}
