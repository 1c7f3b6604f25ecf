// Package catalog provides the developer and location reference data.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a developer or location id does not exist.
var ErrNotFound = errors.New("not found")

// Developer is a property developer shown in the public catalog.
type Developer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Logo         string `json:"logo"`
	Description  string `json:"description"`
	ProjectCount int    `json:"projectCount"`
	Established  int    `json:"established"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
	Featured     bool   `json:"featured"`
}

// Location is an area listings can be placed in.
// PropertyCount is seeded and never recomputed from listings.
type Location struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	PropertyCount int    `json:"propertyCount"`
	Featured      bool   `json:"featured"`
}

// Store is read-only access to the catalog.
type Store interface {
	ListDevelopers(ctx context.Context, featuredOnly bool) ([]*Developer, error)
	GetDeveloper(ctx context.Context, id int64) (*Developer, error)
	ListLocations(ctx context.Context, featuredOnly bool) ([]*Location, error)
	GetLocation(ctx context.Context, id int64) (*Location, error)
}
