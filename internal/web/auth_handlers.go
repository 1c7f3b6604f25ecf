package web

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/evcraddock/realty-site/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// clientIP is the host part of the request's remote address. Behind a
// trusted proxy RealIP has already replaced it with the forwarded address,
// which carries no port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleLogin checks the admin credentials and starts a session. The 401
// message is the same whichever field was wrong.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if s.limiter.Blocked(ip) {
		apiError(w, "Too many login attempts, try again later", http.StatusTooManyRequests)
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !s.cfg.Credentials.Check(req.Username, req.Password) {
		s.limiter.Fail(ip)
		slog.Warn("failed login", "ip", ip)
		apiError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	s.limiter.Reset(ip)

	u, err := s.cfg.Users.EnsureAdmin(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := s.cfg.Sessions.Create(r.Context(), w, auth.Session{
		UserID:   u.ID,
		Username: u.Username,
		Role:     s.cfg.Credentials.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	apiJSON(w, userResponse{ID: sess.UserID, Username: sess.Username, Role: sess.Role}, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("destroying session", "error", err)
	}
	apiJSON(w, map[string]string{"message": "Logged out"}, http.StatusOK)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, err := s.cfg.Sessions.Validate(r)
	if errors.Is(err, auth.ErrNoSession) || errors.Is(err, auth.ErrInvalidSession) {
		apiError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, userResponse{ID: sess.UserID, Username: sess.Username, Role: sess.Role}, http.StatusOK)
}
