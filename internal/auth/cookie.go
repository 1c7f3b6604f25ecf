package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie's name.
const CookieName = "realty_session"

// CookieOptions configures how session ids are signed and sent.
type CookieOptions struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

type cookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func newCodec(opts CookieOptions) cookieCodec {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return cookieCodec{secret: []byte(opts.Secret), ttl: ttl, secure: opts.Secure}
}

func (c cookieCodec) sign(id string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify returns the session id from a signed cookie value.
func (c cookieCodec) verify(value string) (string, bool) {
	id, _, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	want := c.sign(id)
	if !hmac.Equal([]byte(value), []byte(want)) {
		return "", false
	}
	return id, true
}

// read returns the verified session id carried by the request.
func (c cookieCodec) read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	id, ok := c.verify(cookie.Value)
	if !ok {
		return "", ErrInvalidSession
	}
	return id, nil
}

func (c cookieCodec) set(w http.ResponseWriter, id string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    c.sign(id),
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookieCodec) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
