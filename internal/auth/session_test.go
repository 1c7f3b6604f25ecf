package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testStore() *MemoryStore {
	return NewMemoryStore(CookieOptions{Secret: "test-secret", TTL: time.Hour})
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("expected cookie named %q", CookieName)
	return nil
}

func TestCredentialsCheck(t *testing.T) {
	c := NewCredentials("admin", "s3cret")

	tests := []struct {
		user, pass string
		want       bool
	}{
		{"admin", "s3cret", true},
		{"admin", "wrong", false},
		{"Admin", "s3cret", false},
		{"", "", false},
		{"admin", "s3cret ", false},
	}
	for _, tt := range tests {
		if got := c.Check(tt.user, tt.pass); got != tt.want {
			t.Errorf("Check(%q, %q) = %v, want %v", tt.user, tt.pass, got, tt.want)
		}
	}
	if c.Role != "admin" {
		t.Errorf("role = %q, want admin", c.Role)
	}
}

func TestSessionCreateAndValidate(t *testing.T) {
	store := testStore()

	w := httptest.NewRecorder()
	created, err := store.Create(context.Background(), w, Session{UserID: 1, Username: "admin", Role: "admin"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c := sessionCookie(t, w)
	if !c.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("path = %q, want /", c.Path)
	}
	if c.MaxAge != 3600 {
		t.Errorf("max age = %d, want 3600", c.MaxAge)
	}
	if !strings.HasPrefix(c.Value, created.ID+".") {
		t.Errorf("cookie value %q should start with session id", c.Value)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(c)

	s, err := store.Validate(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if s.Username != "admin" || s.UserID != 1 {
		t.Errorf("session = %+v", s)
	}
}

func TestSessionValidateNoCookie(t *testing.T) {
	store := testStore()

	r := httptest.NewRequest("GET", "/", nil)
	if _, err := store.Validate(r); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestSessionValidateTampered(t *testing.T) {
	store := testStore()

	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, Session{Username: "admin", Role: "admin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c := sessionCookie(t, w)

	id, _, _ := strings.Cut(c.Value, ".")
	for _, value := range []string{id, id + ".bogus", "bogus-session-id", "." + c.Value} {
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: value})
		if _, err := store.Validate(r); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("value %q: err = %v, want ErrInvalidSession", value, err)
		}
	}

	// Signed with a different secret.
	other := NewMemoryStore(CookieOptions{Secret: "other-secret"})
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: other.cookies.sign(id)})
	if _, err := store.Validate(r); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("foreign signature: err = %v, want ErrInvalidSession", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := testStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, Session{Username: "admin", Role: "admin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c := sessionCookie(t, w)

	store.now = func() time.Time { return now.Add(2 * time.Hour) }

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(c)
	if _, err := store.Validate(r); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired session should be removed, %d left", store.Len())
	}
}

func TestSessionDestroy(t *testing.T) {
	store := testStore()
	ctx := context.Background()

	w := httptest.NewRecorder()
	if _, err := store.Create(ctx, w, Session{Username: "admin", Role: "admin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c := sessionCookie(t, w)

	r := httptest.NewRequest("POST", "/api/logout", nil)
	r.AddCookie(c)
	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, r); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if cleared := sessionCookie(t, w2); cleared.MaxAge >= 0 {
		t.Errorf("cleared cookie max age = %d, want negative", cleared.MaxAge)
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(c)
	if _, err := store.Validate(r2); err == nil {
		t.Fatal("expected error after destroy")
	}

	// Destroy without a session still clears the cookie.
	if err := store.Destroy(ctx, httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil)); err != nil {
		t.Errorf("destroy without cookie: %v", err)
	}
}

func TestSessionCleanup(t *testing.T) {
	store := NewMemoryStore(CookieOptions{Secret: "s", TTL: time.Minute})
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, httptest.NewRecorder(), Session{Username: "admin"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	store.now = func() time.Time { return now.Add(30 * time.Second) }
	if _, err := store.Create(ctx, httptest.NewRecorder(), Session{Username: "admin"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	store.now = func() time.Time { return now.Add(75 * time.Second) }
	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("got %d sessions after cleanup, want 1", store.Len())
	}
}

func TestSecureCookieInProduction(t *testing.T) {
	store := NewMemoryStore(CookieOptions{Secret: "s", Secure: true})

	w := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), w, Session{Username: "admin"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sessionCookie(t, w).Secure {
		t.Error("cookie should be Secure")
	}
}
