package listing

import (
	"fmt"
	"strings"
)

const selectColumns = `id, title, description, property_type, status, price, beds, baths, area, address,
	location_id, developer_id, images, features, latitude, longitude,
	featured, premium, exclusive, new_launch, review_status,
	contact_name, contact_email, contact_phone, listing_type, created_at, updated_at`

// dialect holds the few SQL differences between SQLite and Postgres.
type dialect struct {
	placeholder func(n int) string
	like        string
}

var (
	sqliteDialect = dialect{placeholder: func(int) string { return "?" }, like: "LIKE"}
	pgDialect     = dialect{placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }, like: "ILIKE"}
)

// where builds the WHERE, ORDER BY and LIMIT tail of a list query.
func (f Filter) where(d dialect) (string, []any) {
	var conditions []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, d.placeholder(len(args))))
	}

	if f.ReviewStatus != "" {
		add("review_status = %s", string(f.ReviewStatus))
	}
	if f.PropertyType != "" {
		add("LOWER(property_type) = %s", strings.ToLower(f.PropertyType))
	}
	if f.ListingType != "" {
		add("listing_type = %s", string(f.ListingType))
	}
	if f.LocationID != 0 {
		add("location_id = %s", f.LocationID)
	}
	if f.DeveloperID != 0 {
		add("developer_id = %s", f.DeveloperID)
	}
	if f.FeaturedOnly {
		add("featured = %s", true)
	}
	if f.MinPrice > 0 {
		add("price >= %s", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add("price <= %s", f.MaxPrice)
	}
	if f.MinBeds > 0 {
		add("beds >= %s", f.MinBeds)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + q + "%"
		args = append(args, pattern)
		titleArg := d.placeholder(len(args))
		args = append(args, pattern)
		descArg := d.placeholder(len(args))
		conditions = append(conditions, fmt.Sprintf("(title %s %s OR description %s %s)", d.like, titleArg, d.like, descArg))
	}

	var sb strings.Builder
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, " LIMIT %s", d.placeholder(len(args)))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			fmt.Fprintf(&sb, " OFFSET %s", d.placeholder(len(args)))
		}
	}

	return sb.String(), args
}
