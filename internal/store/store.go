// Package store picks the persistence backend from configuration and hands
// out the per-domain stores.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/evcraddock/realty-site/internal/catalog"
	"github.com/evcraddock/realty-site/internal/db"
	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/localstore"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/pgdb"
	"github.com/evcraddock/realty-site/internal/stats"
	"github.com/evcraddock/realty-site/internal/user"
)

// Kind names a backend.
type Kind string

const (
	KindSQL   Kind = "sql"
	KindLocal Kind = "local"
)

// Options selects and configures the backend.
type Options struct {
	Kind        Kind
	DatabaseURL string
	LocalPath   string
	LocalPrefix string
}

// Backend bundles the stores of one backend.
type Backend struct {
	Name     string
	Listings listing.Store
	Messages message.Store
	Users    user.Store
	Catalog  catalog.Store

	statsFn func(ctx context.Context) (stats.Stats, error)
	closeFn func() error
}

// Stats returns the dashboard statistics for this backend.
func (b *Backend) Stats(ctx context.Context) (stats.Stats, error) {
	return b.statsFn(ctx)
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.closeFn == nil {
		return nil
	}
	return b.closeFn()
}

// Open returns the backend described by opts. An empty DatabaseURL falls
// back to SQLite at db.DefaultPath.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	if opts.Kind == KindLocal {
		return openLocal(opts)
	}

	url := strings.TrimSpace(opts.DatabaseURL)
	switch {
	case pgdb.IsURL(url):
		return openPostgres(ctx, url)
	case url == "":
		path, err := db.DefaultPath()
		if err != nil {
			return nil, err
		}
		slog.Warn("DATABASE_URL not set, using local SQLite database", "path", path)
		return openSQLite(ctx, path)
	default:
		return openSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	}
}

func openSQLite(ctx context.Context, path string) (*Backend, error) {
	d, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := catalog.SeedSQL(ctx, d); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}

	b := &Backend{
		Name:     "sqlite",
		Listings: listing.NewSQLRepository(d),
		Messages: message.NewSQLRepository(d),
		Users:    user.NewSQLRepository(d),
		Catalog:  catalog.NewSQLRepository(d),
		closeFn:  d.Close,
	}
	b.statsFn = b.computeStats
	return b, nil
}

func openPostgres(ctx context.Context, url string) (*Backend, error) {
	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := catalog.SeedPG(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}

	b := &Backend{
		Name:     "postgres",
		Listings: listing.NewPGRepository(pool),
		Messages: message.NewPGRepository(pool),
		Users:    user.NewPGRepository(pool),
		Catalog:  catalog.NewPGRepository(pool),
		closeFn: func() error {
			pool.Close()
			return nil
		},
	}
	b.statsFn = b.computeStats
	return b, nil
}

func openLocal(opts Options) (*Backend, error) {
	path := opts.LocalPath
	if path == "" {
		path = "realty-local.json"
	}
	var lsOpts []localstore.Option
	if opts.LocalPrefix != "" {
		lsOpts = append(lsOpts, localstore.WithPrefix(opts.LocalPrefix))
	}

	ls, err := localstore.Open(path, lsOpts...)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Name:     "local",
		Listings: ls.Listings(),
		Messages: ls.Messages(),
		Users:    ls.Users(),
		Catalog:  catalog.NewStatic(),
		statsFn: func(context.Context) (stats.Stats, error) {
			return ls.Stats(), nil
		},
		closeFn: ls.Close,
	}, nil
}

// computeStats reads every listing and message and counts them.
func (b *Backend) computeStats(ctx context.Context) (stats.Stats, error) {
	listings, err := b.Listings.List(ctx, listing.Filter{})
	if err != nil {
		return stats.Stats{}, fmt.Errorf("loading listings: %w", err)
	}
	messages, err := b.Messages.List(ctx, message.Filter{})
	if err != nil {
		return stats.Stats{}, fmt.Errorf("loading messages: %w", err)
	}
	return stats.Compute(listings, messages, time.Now()), nil
}
