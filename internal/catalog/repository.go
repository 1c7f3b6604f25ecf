package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evcraddock/realty-site/internal/db"
)

// SQLRepository reads the catalog from SQLite.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a catalog repository.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const developerColumns = `id, name, logo, description, project_count, established, email, phone, website, featured`

const locationColumns = `id, name, city, description, image, property_count, featured`

type scanner interface {
	Scan(dest ...any) error
}

func scanDeveloper(row scanner) (*Developer, error) {
	var d Developer
	if err := row.Scan(&d.ID, &d.Name, &d.Logo, &d.Description, &d.ProjectCount,
		&d.Established, &d.Email, &d.Phone, &d.Website, &d.Featured); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanLocation(row scanner) (*Location, error) {
	var l Location
	if err := row.Scan(&l.ID, &l.Name, &l.City, &l.Description, &l.Image,
		&l.PropertyCount, &l.Featured); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListDevelopers returns developers ordered by name.
func (r *SQLRepository) ListDevelopers(ctx context.Context, featuredOnly bool) (devs []*Developer, err error) {
	query := fmt.Sprintf("SELECT %s FROM developers", developerColumns)
	if featuredOnly {
		query += " WHERE featured = 1"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing developers: %w", err)
	}
	defer db.CloseRows(rows, &err)

	devs = []*Developer{}
	for rows.Next() {
		d, err := scanDeveloper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning developer: %w", err)
		}
		devs = append(devs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating developers: %w", err)
	}

	return devs, nil
}

// GetDeveloper returns a developer by id.
func (r *SQLRepository) GetDeveloper(ctx context.Context, id int64) (*Developer, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM developers WHERE id = ?", developerColumns), id)
	d, err := scanDeveloper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("developer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying developer %d: %w", id, err)
	}
	return d, nil
}

// ListLocations returns locations ordered by name.
func (r *SQLRepository) ListLocations(ctx context.Context, featuredOnly bool) (locs []*Location, err error) {
	query := fmt.Sprintf("SELECT %s FROM locations", locationColumns)
	if featuredOnly {
		query += " WHERE featured = 1"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer db.CloseRows(rows, &err)

	locs = []*Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}

	return locs, nil
}

// GetLocation returns a location by id.
func (r *SQLRepository) GetLocation(ctx context.Context, id int64) (*Location, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM locations WHERE id = ?", locationColumns), id)
	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying location %d: %w", id, err)
	}
	return l, nil
}
