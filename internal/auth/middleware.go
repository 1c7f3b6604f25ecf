package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/evcraddock/realty-site/internal/user"
)

type contextKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// SessionFromContext returns the session stored by RequireAdmin.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}

// RequireAdmin rejects requests without a valid session with 401 and
// sessions whose role is not admin with 403. A failing session store is a
// 500.
func RequireAdmin(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sessions.Validate(r)
			if err != nil {
				if !errors.Is(err, ErrNoSession) && !errors.Is(err, ErrInvalidSession) {
					slog.Error("validating session", "error", err)
					deny(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				deny(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if s.Role != user.RoleAdmin {
				deny(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// LoginLimiter counts failed logins per client and blocks a client after too
// many failures inside the window. Keys whose failures have all expired are
// swept at most once per window.
type LoginLimiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	window    time.Duration
	maxFail   int
	now       func() time.Time
	lastSweep time.Time
}

// NewLoginLimiter allows maxFail failures per window for each client.
func NewLoginLimiter(window time.Duration, maxFail int) *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string][]time.Time),
		window:   window,
		maxFail:  maxFail,
		now:      time.Now,
	}
}

// prune drops attempts older than the window. Caller holds mu.
func (l *LoginLimiter) prune(ip string) []time.Time {
	cutoff := l.now().Add(-l.window)
	valid := l.attempts[ip][:0]
	for _, t := range l.attempts[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(l.attempts, ip)
		return nil
	}
	l.attempts[ip] = valid
	return valid
}

// Blocked reports whether ip has used up its failures.
func (l *LoginLimiter) Blocked(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(ip)) >= l.maxFail
}

// Fail records a failed attempt.
func (l *LoginLimiter) Fail(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Sub(l.lastSweep) >= l.window {
		l.sweep()
	}
	l.attempts[ip] = append(l.prune(ip), l.now())
}

// Sweep drops every client whose failures have all left the window.
func (l *LoginLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep()
}

// sweep is Sweep with mu held.
func (l *LoginLimiter) sweep() {
	for ip := range l.attempts {
		l.prune(ip)
	}
	l.lastSweep = l.now()
}

// Len reports how many clients have failures on record.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// Reset forgets ip's failures after a successful login.
func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, ip)
}
