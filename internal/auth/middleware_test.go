package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func guarded(t *testing.T, store SessionStore) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			t.Error("expected session in context")
			return
		}
		w.Header().Set("X-User", s.Username)
		w.WriteHeader(http.StatusOK)
	})
	return RequireAdmin(store)(inner)
}

func TestRequireAdminUnauthenticated(t *testing.T) {
	handler := guarded(t, testStore())

	r := httptest.NewRequest("GET", "/api/admin/listings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] == "" {
		t.Error("expected message in body")
	}
}

func TestRequireAdminWrongRole(t *testing.T) {
	store := testStore()
	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, Session{Username: "agent", Role: "viewer"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/admin/listings", nil)
	r.AddCookie(sessionCookie(t, w))
	w2 := httptest.NewRecorder()
	guarded(t, store).ServeHTTP(w2, r)

	if w2.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w2.Code, http.StatusForbidden)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	store := testStore()
	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, Session{Username: "admin", Role: "admin"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/admin/listings", nil)
	r.AddCookie(sessionCookie(t, w))
	w2 := httptest.NewRecorder()
	guarded(t, store).ServeHTTP(w2, r)

	if w2.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w2.Code, http.StatusOK)
	}
	if w2.Header().Get("X-User") != "admin" {
		t.Errorf("X-User = %q, want admin", w2.Header().Get("X-User"))
	}
}

func TestLoginLimiter(t *testing.T) {
	l := NewLoginLimiter(time.Minute, 3)
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if l.Blocked("1.2.3.4") {
			t.Fatalf("blocked after %d failures", i)
		}
		l.Fail("1.2.3.4")
	}
	if !l.Blocked("1.2.3.4") {
		t.Error("expected block after 3 failures")
	}
	if l.Blocked("5.6.7.8") {
		t.Error("other clients should not be blocked")
	}

	l.now = func() time.Time { return now.Add(2 * time.Minute) }
	if l.Blocked("1.2.3.4") {
		t.Error("failures should expire after the window")
	}

	l.Fail("1.2.3.4")
	l.Reset("1.2.3.4")
	if l.Blocked("1.2.3.4") {
		t.Error("reset should clear failures")
	}
}

// brokenStore fails every call the way an unreachable backend would.
type brokenStore struct{}

var errBackend = errors.New("connection refused")

func (brokenStore) Create(context.Context, http.ResponseWriter, Session) (Session, error) {
	return Session{}, errBackend
}
func (brokenStore) Validate(*http.Request) (*Session, error) {
	return nil, fmt.Errorf("loading session: %w", errBackend)
}
func (brokenStore) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	return errBackend
}
func (brokenStore) Cleanup(context.Context) error { return errBackend }

func TestRequireAdminStoreError(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run when the session store fails")
	})

	r := httptest.NewRequest("GET", "/api/admin/listings", nil)
	w := httptest.NewRecorder()
	RequireAdmin(brokenStore{})(inner).ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestLoginLimiterSweep(t *testing.T) {
	l := NewLoginLimiter(time.Minute, 3)
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.Fail(fmt.Sprintf("10.0.0.%d", i))
	}
	if got := l.Len(); got != 50 {
		t.Fatalf("Len = %d, want 50", got)
	}

	l.now = func() time.Time { return now.Add(30 * time.Second) }
	l.Fail("10.0.1.1")
	l.Sweep()
	if got := l.Len(); got != 51 {
		t.Fatalf("Len inside window = %d, want 51", got)
	}

	// A failure after the window sweeps stale clients without an explicit call.
	l.now = func() time.Time { return now.Add(2 * time.Minute) }
	l.Fail("10.0.2.1")
	if got := l.Len(); got != 1 {
		t.Errorf("Len after window = %d, want 1", got)
	}

	l.now = func() time.Time { return now.Add(5 * time.Minute) }
	l.Sweep()
	if got := l.Len(); got != 0 {
		t.Errorf("Len after Sweep = %d, want 0", got)
	}
}
