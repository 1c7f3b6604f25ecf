package localstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/evcraddock/realty-site/internal/user"
)

type userStore struct{ s *Store }

func (v *userStore) List(_ context.Context) ([]*user.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := make([]*user.User, 0, len(v.s.users))
	for _, u := range v.s.users {
		c := *u
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *user.User) int { return strings.Compare(a.Username, b.Username) })
	return out, nil
}

func (v *userStore) Get(_ context.Context, id int64) (*user.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := slices.IndexFunc(v.s.users, func(u *user.User) bool { return u.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("user %d: %w", id, user.ErrNotFound)
	}
	c := *v.s.users[i]
	return &c, nil
}

func (v *userStore) GetByUsername(_ context.Context, username string) (*user.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.indexByName(username)
	if i < 0 {
		return nil, fmt.Errorf("user %s: %w", username, user.ErrNotFound)
	}
	c := *v.s.users[i]
	return &c, nil
}

func (v *userStore) Create(_ context.Context, username, role string) (*user.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.create(username, role)
}

// create adds a user. Caller holds mu.
func (v *userStore) create(username, role string) (*user.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if role == "" {
		role = user.RoleAdmin
	}
	if v.indexByName(username) >= 0 {
		return nil, fmt.Errorf("%w: %s", user.ErrExists, username)
	}

	u := &user.User{ID: v.s.nextID(), Username: username, Role: role, CreatedAt: v.s.now()}
	next := v.s.current()
	next.users = append(next.users, u)
	if err := v.s.commit(next); err != nil {
		return nil, err
	}
	c := *u
	return &c, nil
}

func (v *userStore) UpdateRole(_ context.Context, id int64, role string) (*user.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := slices.IndexFunc(v.s.users, func(u *user.User) bool { return u.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("user %d: %w", id, user.ErrNotFound)
	}
	c := *v.s.users[i]
	c.Role = role

	next := v.s.current()
	next.users[i] = &c
	if err := v.s.commit(next); err != nil {
		return nil, err
	}
	out := c
	return &out, nil
}

func (v *userStore) Delete(_ context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := slices.IndexFunc(v.s.users, func(u *user.User) bool { return u.ID == id })
	if i < 0 {
		return fmt.Errorf("user %d: %w", id, user.ErrNotFound)
	}
	next := v.s.current()
	next.users = slices.Delete(next.users, i, i+1)
	return v.s.commit(next)
}

func (v *userStore) EnsureAdmin(_ context.Context, username string) (*user.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if i := v.indexByName(username); i >= 0 {
		c := *v.s.users[i]
		return &c, nil
	}
	return v.create(username, user.RoleAdmin)
}

func (v *userStore) indexByName(username string) int {
	username = strings.ToLower(strings.TrimSpace(username))
	return slices.IndexFunc(v.s.users, func(u *user.User) bool { return u.Username == username })
}
