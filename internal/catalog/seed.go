package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Developers returns the built-in developer catalog.
func Developers() []Developer {
	return []Developer{
		{ID: 1, Name: "Emaar Properties", Logo: "/images/developers/emaar.png", Description: "Master developer behind Downtown Dubai and Dubai Creek Harbour.", ProjectCount: 84, Established: 1997, Email: "sales@emaar.example", Phone: "+971 4 000 0001", Website: "https://www.emaar.com", Featured: true},
		{ID: 2, Name: "Nakheel", Logo: "/images/developers/nakheel.png", Description: "Developer of Palm Jumeirah and waterfront communities.", ProjectCount: 41, Established: 2000, Email: "sales@nakheel.example", Phone: "+971 4 000 0002", Website: "https://www.nakheel.com", Featured: true},
		{ID: 3, Name: "DAMAC Properties", Logo: "/images/developers/damac.png", Description: "Luxury residential, commercial and leisure developer.", ProjectCount: 63, Established: 2002, Email: "sales@damac.example", Phone: "+971 4 000 0003", Website: "https://www.damacproperties.com", Featured: true},
		{ID: 4, Name: "Sobha Realty", Logo: "/images/developers/sobha.png", Description: "Backward-integrated developer known for Sobha Hartland.", ProjectCount: 22, Established: 1976, Email: "sales@sobha.example", Phone: "+971 4 000 0004", Website: "https://www.sobharealty.com"},
		{ID: 5, Name: "Meraas", Logo: "/images/developers/meraas.png", Description: "Lifestyle destinations including City Walk and Bluewaters.", ProjectCount: 18, Established: 2007, Email: "sales@meraas.example", Phone: "+971 4 000 0005", Website: "https://www.meraas.com"},
	}
}

// Locations returns the built-in location catalog.
func Locations() []Location {
	return []Location{
		{ID: 1, Name: "Downtown Dubai", City: "Dubai", Description: "Home of Burj Khalifa and Dubai Mall.", Image: "/images/locations/downtown.jpg", PropertyCount: 320, Featured: true},
		{ID: 2, Name: "Dubai Marina", City: "Dubai", Description: "Waterfront towers along a 3km canal.", Image: "/images/locations/marina.jpg", PropertyCount: 410, Featured: true},
		{ID: 3, Name: "Palm Jumeirah", City: "Dubai", Description: "Man-made island of villas and resort apartments.", Image: "/images/locations/palm.jpg", PropertyCount: 150, Featured: true},
		{ID: 4, Name: "Business Bay", City: "Dubai", Description: "Mixed-use district along the Dubai Water Canal.", Image: "/images/locations/business-bay.jpg", PropertyCount: 275},
		{ID: 5, Name: "Jumeirah Village Circle", City: "Dubai", Description: "Family community with mid-market apartments and townhouses.", Image: "/images/locations/jvc.jpg", PropertyCount: 390},
		{ID: 6, Name: "Saadiyat Island", City: "Abu Dhabi", Description: "Cultural district and beachfront residences.", Image: "/images/locations/saadiyat.jpg", PropertyCount: 95},
	}
}

// SeedSQL inserts the built-in catalog into an SQLite database when its
// tables are empty.
func SeedSQL(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM developers").Scan(&count); err != nil {
		return fmt.Errorf("counting developers: %w", err)
	}
	if count == 0 {
		for _, d := range Developers() {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO developers (id, name, logo, description, project_count, established, email, phone, website, featured)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				d.ID, d.Name, d.Logo, d.Description, d.ProjectCount, d.Established, d.Email, d.Phone, d.Website, d.Featured,
			); err != nil {
				return fmt.Errorf("seeding developer %s: %w", d.Name, err)
			}
		}
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return fmt.Errorf("counting locations: %w", err)
	}
	if count == 0 {
		for _, l := range Locations() {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO locations (id, name, city, description, image, property_count, featured)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				l.ID, l.Name, l.City, l.Description, l.Image, l.PropertyCount, l.Featured,
			); err != nil {
				return fmt.Errorf("seeding location %s: %w", l.Name, err)
			}
		}
	}

	return nil
}

// SeedPG is SeedSQL for Postgres. Rows are inserted with ON CONFLICT DO NOTHING
// so reseeding a partially populated table is safe.
func SeedPG(ctx context.Context, pool *pgxpool.Pool) error {
	for _, d := range Developers() {
		if _, err := pool.Exec(ctx,
			`INSERT INTO developers (id, name, logo, description, project_count, established, email, phone, website, featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) ON CONFLICT (id) DO NOTHING`,
			d.ID, d.Name, d.Logo, d.Description, d.ProjectCount, d.Established, d.Email, d.Phone, d.Website, d.Featured,
		); err != nil {
			return fmt.Errorf("seeding developer %s: %w", d.Name, err)
		}
	}
	for _, l := range Locations() {
		if _, err := pool.Exec(ctx,
			`INSERT INTO locations (id, name, city, description, image, property_count, featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
			l.ID, l.Name, l.City, l.Description, l.Image, l.PropertyCount, l.Featured,
		); err != nil {
			return fmt.Errorf("seeding location %s: %w", l.Name, err)
		}
	}

	// Explicit ids leave the sequences behind.
	for _, table := range []string{"developers", "locations"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %s))", table, table,
		)); err != nil {
			return fmt.Errorf("resetting %s sequence: %w", table, err)
		}
	}

	return nil
}
