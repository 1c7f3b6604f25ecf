package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/evcraddock/realty-site/internal/db"
)

// SQLRepository stores listings in SQLite. Images and features are kept as
// JSON text.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a listing repository.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const insertSQL = `INSERT INTO listings
	(title, description, property_type, status, price, beds, baths, area, address,
	 location_id, developer_id, images, features, latitude, longitude,
	 featured, premium, exclusive, new_launch, review_status,
	 contact_name, contact_email, contact_phone, listing_type)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Create inserts a listing as pending, whatever status it carries, and
// returns it with its generated ID.
func (r *SQLRepository) Create(ctx context.Context, l *Listing) (*Listing, error) {
	images, err := encodeList(l.Images)
	if err != nil {
		return nil, fmt.Errorf("encoding images: %w", err)
	}
	features, err := encodeList(l.Features)
	if err != nil {
		return nil, fmt.Errorf("encoding features: %w", err)
	}

	result, err := r.db.ExecContext(ctx, insertSQL,
		l.Title, l.Description, l.PropertyType, l.Status, l.Price, l.Beds, l.Baths, l.Area, l.Address,
		l.LocationID, l.DeveloperID, images, features, l.Latitude, l.Longitude,
		l.Featured, l.Premium, l.Exclusive, l.NewLaunch, string(StatusPending),
		l.ContactName, l.ContactEmail, l.ContactPhone, string(l.ListingType),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.Get(ctx, id)
}

// Get returns a listing by its ID.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listings WHERE id = ?", selectColumns)
	l, err := scanSQLListing(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying listing %d: %w", id, err)
	}
	return l, nil
}

// List returns listings matching the filter, newest first.
func (r *SQLRepository) List(ctx context.Context, f Filter) (listings []*Listing, err error) {
	tail, args := f.where(sqliteDialect)
	query := fmt.Sprintf("SELECT %s FROM listings", selectColumns) + tail

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer db.CloseRows(rows, &err)

	listings = []*Listing{}
	for rows.Next() {
		l, err := scanSQLListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}

	return listings, nil
}

// Update merges the patch into the stored row and stamps updated_at.
// An empty patch only stamps updated_at.
func (r *SQLRepository) Update(ctx context.Context, id int64, p Patch) (*Listing, error) {
	var sets []string
	var args []any
	for _, a := range p.assignments() {
		v := a.value
		if list, ok := v.([]string); ok {
			encoded, err := encodeList(list)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", a.column, err)
			}
			v = encoded
		}
		sets = append(sets, a.column+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE listings SET %s WHERE id = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}

	return r.Get(ctx, id)
}

// Delete removes a listing by ID.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}

	return nil
}

// scanSQLListing scans a listing from an SQLite row.
func scanSQLListing(row interface{ Scan(...any) error }) (*Listing, error) {
	var l Listing
	var locationID, developerID sql.NullInt64
	var latitude, longitude sql.NullFloat64
	var images, features, reviewStatus, listingType string

	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.PropertyType, &l.Status, &l.Price,
		&l.Beds, &l.Baths, &l.Area, &l.Address,
		&locationID, &developerID, &images, &features, &latitude, &longitude,
		&l.Featured, &l.Premium, &l.Exclusive, &l.NewLaunch, &reviewStatus,
		&l.ContactName, &l.ContactEmail, &l.ContactPhone, &listingType,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if locationID.Valid {
		l.LocationID = &locationID.Int64
	}
	if developerID.Valid {
		l.DeveloperID = &developerID.Int64
	}
	if latitude.Valid {
		l.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		l.Longitude = &longitude.Float64
	}
	l.ReviewStatus = ReviewStatus(reviewStatus)
	l.ListingType = Type(listingType)
	l.Images = decodeList(images)
	l.Features = decodeList(features)

	return &l, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeList tolerates malformed JSON by returning an empty list.
func decodeList(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}
