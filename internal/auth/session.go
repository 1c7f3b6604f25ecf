package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrNoSession is returned when the request carries no session cookie.
	ErrNoSession = errors.New("no session cookie")

	// ErrInvalidSession is returned for a tampered, unknown or expired session.
	ErrInvalidSession = errors.New("invalid session")
)

// Session is a signed-in user.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore keeps server-side sessions keyed by the id in the cookie.
type SessionStore interface {
	// Create stores a new session for s's user and sets the cookie. The
	// returned session carries the generated id and expiry.
	Create(ctx context.Context, w http.ResponseWriter, s Session) (Session, error)
	Validate(r *http.Request) (*Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	Cleanup(ctx context.Context) error
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	cookies  cookieCodec
	now      func() time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(opts CookieOptions) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		cookies:  newCodec(opts),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, w http.ResponseWriter, s Session) (Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return Session{}, fmt.Errorf("generating session ID: %w", err)
	}
	s.ID = id
	s.ExpiresAt = m.now().Add(m.cookies.ttl)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.cookies.set(w, id, s.ExpiresAt)
	return s, nil
}

func (m *MemoryStore) Validate(r *http.Request) (*Session, error) {
	id, err := m.cookies.read(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrInvalidSession
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return nil, ErrInvalidSession
	}
	return &s, nil
}

func (m *MemoryStore) Destroy(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	if id, err := m.cookies.read(r); err == nil {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	}
	m.cookies.clear(w)
	return nil
}

// Cleanup removes expired sessions.
func (m *MemoryStore) Cleanup(_ context.Context) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func RunCleanup(ctx context.Context, store SessionStore, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
