//go:build integration

package pgdb

import (
	"context"
	"testing"
)

func TestMigrateIdempotent(t *testing.T) {
	pool := NewTestPool(t)

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestListingDefaults(t *testing.T) {
	pool := NewTestPool(t)
	ctx := context.Background()

	var review string
	var images []string
	err := pool.QueryRow(ctx,
		`INSERT INTO listings (title, property_type) VALUES ($1, $2) RETURNING review_status, images`,
		"Marina flat", "apartment",
	).Scan(&review, &images)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if review != "pending" {
		t.Errorf("review_status = %q, want pending", review)
	}
	if len(images) != 0 {
		t.Errorf("images = %v, want empty", images)
	}
}
