package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/evcraddock/realty-site/internal/auth"
	"github.com/evcraddock/realty-site/internal/config"
	"github.com/evcraddock/realty-site/internal/email"
	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/logging"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/store"
	"github.com/evcraddock/realty-site/internal/web"
)

const sessionCleanupInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server for the public site API and the admin API. In production it also serves the built front-end.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: PORT or 5000)")

	return cmd
}

func runServe(port int) error {
	cfg, err := config.Load(configFile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if port > 0 {
		cfg.Port = port
	}

	logging.Setup(!cfg.IsProduction())
	for _, w := range cfg.Warnings() {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("closing store", "error", err)
		}
	}()

	if _, err := backend.Users.EnsureAdmin(ctx, cfg.AdminUsername); err != nil {
		return fmt.Errorf("ensuring admin user: %w", err)
	}

	sessions, rdb, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("closing redis", "error", err)
			}
		}()
	}
	go auth.RunCleanup(ctx, sessions, sessionCleanupInterval, func(err error) {
		slog.Error("cleaning up sessions", "error", err)
	})

	notifier := email.NewNotifier(email.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	}, cfg.NotifyEmail, cfg.BaseURL())

	srv := web.NewServer(web.Config{
		Listings:    listing.NewService(backend.Listings, cfg.StrictReview),
		Messages:    message.NewService(backend.Messages, cfg.StrictReview),
		Users:       backend.Users,
		Catalog:     backend.Catalog,
		Stats:       backend,
		Sessions:    sessions,
		Credentials: auth.NewCredentials(cfg.AdminUsername, cfg.AdminPassword),
		Notifier:    notifier,
		Production:  cfg.IsProduction(),
		StaticDir:   cfg.StaticDir,
		TrustProxy:  cfg.TrustProxy,
	})

	slog.Info("starting realty site",
		"store", backend.Name,
		"env", cfg.Env,
		"strict_review", cfg.StrictReview,
		"notifications", notifier.Enabled(),
	)
	return srv.ListenAndServe(ctx, cfg.Addr())
}

// openBackend opens the store selected by the config.
func openBackend(ctx context.Context, cfg config.Config) (*store.Backend, error) {
	backend, err := store.Open(ctx, store.Options{
		Kind:        store.Kind(cfg.Store),
		DatabaseURL: cfg.DatabaseURL,
		LocalPath:   cfg.LocalStorePath,
		LocalPrefix: cfg.LocalStorePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return backend, nil
}

// newSessionStore uses Redis when REDIS_ADDR is set and memory otherwise.
// The returned client is nil for the memory store.
func newSessionStore(ctx context.Context, cfg config.Config) (auth.SessionStore, *redis.Client, error) {
	opts := auth.CookieOptions{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}
	if cfg.RedisAddr == "" {
		return auth.NewMemoryStore(opts), nil, nil
	}

	rdb, err := auth.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using redis session store", "addr", cfg.RedisAddr)
	return auth.NewRedisStore(rdb, opts), rdb, nil
}
