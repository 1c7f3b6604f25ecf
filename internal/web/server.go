// Package web provides the HTTP server and JSON API for the realty site.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/realty-site/internal/auth"
	"github.com/evcraddock/realty-site/internal/catalog"
	"github.com/evcraddock/realty-site/internal/email"
	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/logging"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/stats"
	"github.com/evcraddock/realty-site/internal/user"
)

// StatsSource computes the admin dashboard statistics.
type StatsSource interface {
	Stats(ctx context.Context) (stats.Stats, error)
}

// Config wires the server to its stores and settings.
type Config struct {
	Listings    *listing.Service
	Messages    *message.Service
	Users       user.Store
	Catalog     catalog.Store
	Stats       StatsSource
	Sessions    auth.SessionStore
	Credentials auth.Credentials
	Notifier    *email.Notifier

	// Production serves the built front-end from StaticDir.
	Production bool
	StaticDir  string

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxy bool
}

// Server is the HTTP server.
type Server struct {
	cfg     Config
	limiter *auth.LoginLimiter
	router  chi.Router
	notify  func(func() error, string)
}

// NewServer builds the router.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:     cfg,
		limiter: auth.NewLoginLimiter(time.Minute, 10),
		router:  chi.NewRouter(),
	}
	s.notify = s.notifyAsync
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/user", s.handleCurrentUser)

		r.Get("/developers", s.handleListDevelopers)
		r.Get("/developers/{id}", s.handleGetDeveloper)
		r.Get("/locations", s.handleListLocations)
		r.Get("/locations/{id}", s.handleGetLocation)

		r.Get("/properties", s.handleListProperties)
		r.Post("/properties", s.handleSubmitProperty)
		r.Get("/properties/{id}", s.handleGetProperty)
		r.Post("/contact", s.handleContact)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin(s.cfg.Sessions))

			r.Get("/listings", s.handleAdminListListings)
			r.Post("/listings", s.handleAdminCreateListing)
			r.Get("/listings/{id}", s.handleAdminGetListing)
			r.Patch("/listings/{id}", s.handleAdminUpdateListing)
			r.Delete("/listings/{id}", s.handleAdminDeleteListing)
			r.Post("/listings/{id}/approve", s.handleReview(listing.StatusApproved))
			r.Post("/listings/{id}/reject", s.handleReview(listing.StatusRejected))

			r.Get("/messages", s.handleAdminListMessages)
			r.Get("/messages/{id}", s.handleAdminGetMessage)
			r.Patch("/messages/{id}", s.handleAdminUpdateMessage)
			r.Delete("/messages/{id}", s.handleAdminDeleteMessage)

			r.Get("/stats", s.handleAdminStats)
			r.Get("/users", s.handleAdminUsers)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			apiError(w, "Not found", http.StatusNotFound)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			apiError(w, "Method not allowed", http.StatusMethodNotAllowed)
		})
	})

	if s.cfg.Production && s.cfg.StaticDir != "" {
		r.NotFound(spaHandler(s.cfg.StaticDir).ServeHTTP)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "production", s.cfg.Production)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// notifyAsync sends an admin notification off the request path. Failures
// are logged only.
func (s *Server) notifyAsync(send func() error, what string) {
	if !s.cfg.Notifier.Enabled() {
		return
	}
	go func() {
		if err := send(); err != nil {
			slog.Warn("sending admin notification", "kind", what, "error", err)
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
