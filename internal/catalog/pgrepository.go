package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository reads the catalog from Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Postgres catalog repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListDevelopers(ctx context.Context, featuredOnly bool) ([]*Developer, error) {
	query := fmt.Sprintf("SELECT %s FROM developers", developerColumns)
	if featuredOnly {
		query += " WHERE featured"
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing developers: %w", err)
	}
	devs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Developer, error) {
		return scanDeveloper(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning developers: %w", err)
	}
	if devs == nil {
		devs = []*Developer{}
	}
	return devs, nil
}

func (r *PGRepository) GetDeveloper(ctx context.Context, id int64) (*Developer, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM developers WHERE id = $1", developerColumns), id)
	d, err := scanDeveloper(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("developer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying developer %d: %w", id, err)
	}
	return d, nil
}

func (r *PGRepository) ListLocations(ctx context.Context, featuredOnly bool) ([]*Location, error) {
	query := fmt.Sprintf("SELECT %s FROM locations", locationColumns)
	if featuredOnly {
		query += " WHERE featured"
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	locs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Location, error) {
		return scanLocation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning locations: %w", err)
	}
	if locs == nil {
		locs = []*Location{}
	}
	return locs, nil
}

func (r *PGRepository) GetLocation(ctx context.Context, id int64) (*Location, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM locations WHERE id = $1", locationColumns), id)
	l, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying location %d: %w", id, err)
	}
	return l, nil
}
