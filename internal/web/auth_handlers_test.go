package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evcraddock/realty-site/internal/auth"
)

func TestLoginSuccess(t *testing.T) {
	e := newTestEnv(t, false)

	w := e.do(t, "POST", "/api/login", nil, map[string]string{"username": "admin", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	u := decode[userResponse](t, w)
	if u.Username != "admin" || u.Role != "admin" || u.ID == 0 {
		t.Errorf("user = %+v", u)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie, got %v", cookie)
	}

	// The admin keeps the same id across logins.
	again := decode[userResponse](t, e.do(t, "POST", "/api/login", nil, map[string]string{"username": "admin", "password": "secret"}))
	if again.ID != u.ID {
		t.Errorf("id changed between logins: %d vs %d", u.ID, again.ID)
	}
}

func TestLoginFailure(t *testing.T) {
	e := newTestEnv(t, false)

	tests := []map[string]string{
		{"username": "admin", "password": "wrong"},
		{"username": "root", "password": "secret"},
		{"username": "", "password": ""},
	}
	for _, body := range tests {
		w := e.do(t, "POST", "/api/login", nil, body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%v: status = %d, want 401", body, w.Code)
		}
		if got := decode[map[string]string](t, w); got["message"] != "Invalid credentials" {
			t.Errorf("%v: message = %q", body, got["message"])
		}
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.CookieName {
				t.Errorf("%v: failed login should not set a session cookie", body)
			}
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	e := newTestEnv(t, false)

	for i := 0; i < 10; i++ {
		e.do(t, "POST", "/api/login", nil, map[string]string{"username": "admin", "password": "wrong"})
	}
	w := e.do(t, "POST", "/api/login", nil, map[string]string{"username": "admin", "password": "secret"})
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func loginFrom(srv http.Handler, remoteAddr, forwardedFor, password string) int {
	body := fmt.Sprintf(`{"username":"admin","password":%q}`, password)
	r := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		r.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w.Code
}

func TestLoginLimitIgnoresPortAndForwardedFor(t *testing.T) {
	e := newTestEnv(t, false)

	for i := 0; i < 10; i++ {
		addr := fmt.Sprintf("203.0.113.7:%d", 40000+i)
		xff := fmt.Sprintf("198.51.100.%d", i)
		if code := loginFrom(e.srv, addr, xff, "wrong"); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, code)
		}
	}

	if code := loginFrom(e.srv, "203.0.113.7:50000", "198.51.100.200", "secret"); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", code)
	}
	if code := loginFrom(e.srv, "203.0.113.8:40000", "", "secret"); code != http.StatusOK {
		t.Errorf("other host status = %d, want 200", code)
	}
}

func TestLoginLimitBehindTrustedProxy(t *testing.T) {
	e := newTestEnv(t, false)
	cfg := e.srv.cfg
	cfg.TrustProxy = true
	srv := NewServer(cfg)

	for i := 0; i < 10; i++ {
		loginFrom(srv, fmt.Sprintf("10.0.0.1:%d", 40000+i), "198.51.100.1", "wrong")
	}

	if code := loginFrom(srv, "10.0.0.1:50000", "198.51.100.1", "secret"); code != http.StatusTooManyRequests {
		t.Errorf("forwarded client status = %d, want 429", code)
	}
	if code := loginFrom(srv, "10.0.0.1:50001", "198.51.100.2", "secret"); code != http.StatusOK {
		t.Errorf("other forwarded client status = %d, want 200", code)
	}
}

func TestCurrentUser(t *testing.T) {
	e := newTestEnv(t, false)

	if w := e.do(t, "GET", "/api/user", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}

	cookie := e.login(t)
	w := e.do(t, "GET", "/api/user", cookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if u := decode[userResponse](t, w); u.Username != "admin" {
		t.Errorf("username = %q", u.Username)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	e := newTestEnv(t, false)
	cookie := e.login(t)

	w := e.do(t, "POST", "/api/logout", cookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}

	if w := e.do(t, "GET", "/api/user", cookie, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("user after logout status = %d, want 401", w.Code)
	}
	if w := e.do(t, "GET", "/api/admin/stats", cookie, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("admin after logout status = %d, want 401", w.Code)
	}

	// Logging out twice is harmless.
	if w := e.do(t, "POST", "/api/logout", nil, nil); w.Code != http.StatusOK {
		t.Errorf("second logout status = %d", w.Code)
	}
}
