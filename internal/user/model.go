// Package user stores the admin identities that can sign in to the
// dashboard.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrExists is returned when a username is already taken.
	ErrExists = errors.New("user already exists")
)

// RoleAdmin is the only role that can reach the admin API.
const RoleAdmin = "admin"

// User is an account known to the site.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence contract for users.
type Store interface {
	List(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username, role string) (*User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*User, error)
	Delete(ctx context.Context, id int64) error

	// EnsureAdmin returns the user with the given username, creating it
	// with RoleAdmin if it does not exist yet.
	EnsureAdmin(ctx context.Context, username string) (*User, error)
}

// normalize trims and lowercases a username and defaults the role.
func normalize(username, role string) (string, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return "", "", fmt.Errorf("username is required")
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = RoleAdmin
	}
	return username, role, nil
}
