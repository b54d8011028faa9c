package repository

import (
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedFunction   = "42883"
)

var (
	ErrNotFound = domain.ErrNotFound
	// ErrDuplicateSeat is returned when an insert hits the live-seat unique index.
	ErrDuplicateSeat = errors.New("seat already has a live booking")
	// ErrProcedureMissing is returned when a seat counter procedure is not installed.
	ErrProcedureMissing = errors.New("seat counter procedure is not installed")
	ErrDuplicateEmail   = domain.ErrEmailTaken
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
