package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/evcraddock/realty-site/internal/db"
)

// SQLRepository manages users in SQLite.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a user repository.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create adds a user. Usernames are unique and case-insensitive.
func (r *SQLRepository) Create(ctx context.Context, username, role string) (*User, error) {
	username, role, err := normalize(username, role)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, "INSERT INTO users (username, role) VALUES (?, ?)", username, role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("%w: %s", ErrExists, username)
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user ID: %w", err)
	}

	return r.Get(ctx, id)
}

// List returns all users ordered by username.
func (r *SQLRepository) List(ctx context.Context) (users []*User, err error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, username, role, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer db.CloseRows(rows, &err)

	users = []*User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// Get returns a user by ID.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*User, error) {
	return r.queryOne(ctx, "SELECT id, username, role, created_at FROM users WHERE id = ?", id)
}

// GetByUsername returns a user by username.
func (r *SQLRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.queryOne(ctx, "SELECT id, username, role, created_at FROM users WHERE username = ?",
		strings.ToLower(strings.TrimSpace(username)))
}

func (r *SQLRepository) queryOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// UpdateRole changes a user's role.
func (r *SQLRepository) UpdateRole(ctx context.Context, id int64, role string) (*User, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	return r.Get(ctx, id)
}

// Delete removes a user by ID.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	return nil
}

// EnsureAdmin creates the admin user on first start and returns it.
func (r *SQLRepository) EnsureAdmin(ctx context.Context, username string) (*User, error) {
	username, role, err := normalize(username, RoleAdmin)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO users (username, role) VALUES (?, ?) ON CONFLICT (username) DO NOTHING",
		username, role,
	)
	if err != nil {
		return nil, fmt.Errorf("ensuring admin: %w", err)
	}

	return r.GetByUsername(ctx, username)
}
