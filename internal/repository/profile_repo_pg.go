package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository interface {
	// CreateWithCredentials stores the auth identity and its profile in one transaction.
	CreateWithCredentials(ctx context.Context, profile *domain.Profile, passwordHash string) error
	GetCredentials(ctx context.Context, email string) (*domain.Profile, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
}

type PGProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &PGProfileRepository{db: db}
}

func (r *PGProfileRepository) CreateWithCredentials(ctx context.Context, p *domain.Profile, passwordHash string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO profiles (id, email, role) VALUES ($1, $2, $3) RETURNING created_at`,
		p.ID, p.Email, p.Role).Scan(&p.CreatedAt); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO auth_users (id, email, password_hash) VALUES ($1, $2, $3)`,
		p.ID, p.Email, passwordHash); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert auth user: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PGProfileRepository) GetCredentials(ctx context.Context, email string) (*domain.Profile, string, error) {
	var p domain.Profile
	var hash string
	err := r.db.QueryRow(ctx, `SELECT p.id, p.email, p.role, p.created_at, a.password_hash
		FROM auth_users a JOIN profiles p ON p.id = a.id
		WHERE a.email=$1`, email).Scan(&p.ID, &p.Email, &p.Role, &p.CreatedAt, &hash)
	if err != nil {
		return nil, "", notFound(err)
	}
	return &p, hash, nil
}

func (r *PGProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.QueryRow(ctx, `SELECT id, email, role, created_at FROM profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.Email, &p.Role, &p.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PGProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT id, email, role, created_at FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0)
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Role, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ ProfileRepository = (*PGProfileRepository)(nil)
