package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PGRepository manages users in Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Postgres user repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, username, role string) (*User, error) {
	username, role, err := normalize(username, role)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(r.pool.QueryRow(ctx,
		"INSERT INTO users (username, role) VALUES ($1, $2) RETURNING id, username, role, created_at",
		username, role,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrExists, username)
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}
	return u, nil
}

func (r *PGRepository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, username, role, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	return r.queryOne(ctx, "SELECT id, username, role, created_at FROM users WHERE id = $1", id)
}

func (r *PGRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.queryOne(ctx, "SELECT id, username, role, created_at FROM users WHERE username = $1",
		strings.ToLower(strings.TrimSpace(username)))
}

func (r *PGRepository) queryOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

func (r *PGRepository) UpdateRole(ctx context.Context, id int64, role string) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		"UPDATE users SET role = $1 WHERE id = $2 RETURNING id, username, role, created_at", role, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PGRepository) EnsureAdmin(ctx context.Context, username string) (*User, error) {
	username, role, err := normalize(username, RoleAdmin)
	if err != nil {
		return nil, err
	}

	if _, err := r.pool.Exec(ctx,
		"INSERT INTO users (username, role) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING",
		username, role,
	); err != nil {
		return nil, fmt.Errorf("ensuring admin: %w", err)
	}

	return r.GetByUsername(ctx, username)
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
