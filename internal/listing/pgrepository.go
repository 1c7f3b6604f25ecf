package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository stores listings in Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Postgres listing repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const pgInsertSQL = `INSERT INTO listings
	(title, description, property_type, status, price, beds, baths, area, address,
	 location_id, developer_id, images, features, latitude, longitude,
	 featured, premium, exclusive, new_launch, review_status,
	 contact_name, contact_email, contact_phone, listing_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	RETURNING ` + selectColumns

// Create inserts a listing as pending and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, l *Listing) (*Listing, error) {
	row := r.pool.QueryRow(ctx, pgInsertSQL,
		l.Title, l.Description, l.PropertyType, l.Status, l.Price, l.Beds, l.Baths, l.Area, l.Address,
		l.LocationID, l.DeveloperID, nonNil(l.Images), nonNil(l.Features), l.Latitude, l.Longitude,
		l.Featured, l.Premium, l.Exclusive, l.NewLaunch, string(StatusPending),
		l.ContactName, l.ContactEmail, l.ContactPhone, string(l.ListingType),
	)
	saved, err := scanPGListing(row)
	if err != nil {
		return nil, fmt.Errorf("inserting listing: %w", err)
	}
	return saved, nil
}

// Get returns a listing by its ID.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Listing, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM listings WHERE id = $1", selectColumns), id)
	l, err := scanPGListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying listing %d: %w", id, err)
	}
	return l, nil
}

// List returns listings matching the filter, newest first.
func (r *PGRepository) List(ctx context.Context, f Filter) ([]*Listing, error) {
	tail, args := f.where(pgDialect)
	rows, err := r.pool.Query(ctx, fmt.Sprintf("SELECT %s FROM listings", selectColumns)+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	listings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Listing, error) {
		return scanPGListing(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}
	if listings == nil {
		listings = []*Listing{}
	}
	return listings, nil
}

// Update merges the patch in a single UPDATE ... RETURNING.
func (r *PGRepository) Update(ctx context.Context, id int64, p Patch) (*Listing, error) {
	var sets []string
	var args []any
	for _, a := range p.assignments() {
		args = append(args, a.value)
		sets = append(sets, fmt.Sprintf("%s = $%d", a.column, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE listings SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), selectColumns)

	l, err := scanPGListing(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("updating listing: %w", err)
	}
	return l, nil
}

// Delete removes a listing by ID.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanPGListing(row pgx.Row) (*Listing, error) {
	var l Listing
	var reviewStatus, listingType string

	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.PropertyType, &l.Status, &l.Price,
		&l.Beds, &l.Baths, &l.Area, &l.Address,
		&l.LocationID, &l.DeveloperID, &l.Images, &l.Features, &l.Latitude, &l.Longitude,
		&l.Featured, &l.Premium, &l.Exclusive, &l.NewLaunch, &reviewStatus,
		&l.ContactName, &l.ContactEmail, &l.ContactPhone, &listingType,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.ReviewStatus = ReviewStatus(reviewStatus)
	l.ListingType = Type(listingType)
	l.Images = nonNil(l.Images)
	l.Features = nonNil(l.Features)
	return &l, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
