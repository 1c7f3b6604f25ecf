// Package listing provides the property listing model, its review workflow,
// and data access.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a listing id does not exist.
	ErrNotFound = errors.New("listing not found")

	// ErrIllegalTransition is returned in strict mode when a review status
	// change is not in the transition table.
	ErrIllegalTransition = errors.New("illegal review status transition")

	// ErrInvalid is matched by every ValidationError.
	ErrInvalid = errors.New("invalid listing")
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalid) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// ReviewStatus is the moderation state of a listing.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// ReviewStatuses lists every known review status.
var ReviewStatuses = []ReviewStatus{StatusPending, StatusApproved, StatusRejected}

// ParseReviewStatus converts a string to a known review status.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	st := ReviewStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReviewStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "reviewStatus", Message: fmt.Sprintf("must be one of pending, approved, rejected (got %q)", s)}
}

// Transition checks whether a listing may move from one review status to
// another. Without strict any known status may follow any other, including
// rejected back to pending. With strict only pending may be decided, and
// approved and rejected are terminal.
func Transition(from, to ReviewStatus, strict bool) error {
	if !strict || from == to {
		return nil
	}
	if from == StatusPending && (to == StatusApproved || to == StatusRejected) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}

// Type is whether a listing is for sale or for rent.
type Type string

const (
	TypeSale Type = "sale"
	TypeRent Type = "rent"
)

// Listing is a property submitted for publication on the site.
// DeveloperID and LocationID are soft references into the catalog.
type Listing struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	PropertyType string       `json:"propertyType"`
	Status       string       `json:"status"`
	Price        float64      `json:"price"`
	Beds         int          `json:"beds"`
	Baths        int          `json:"baths"`
	Area         float64      `json:"area"`
	Address      string       `json:"address"`
	LocationID   *int64       `json:"locationId"`
	DeveloperID  *int64       `json:"developerId"`
	Images       []string     `json:"images"`
	Features     []string     `json:"features"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Featured     bool         `json:"featured"`
	Premium      bool         `json:"premium"`
	Exclusive    bool         `json:"exclusive"`
	NewLaunch    bool         `json:"newLaunch"`
	ReviewStatus ReviewStatus `json:"reviewStatus"`
	ContactName  string       `json:"contactName"`
	ContactEmail string       `json:"contactEmail"`
	ContactPhone string       `json:"contactPhone"`
	ListingType  Type         `json:"listingType"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Normalize trims text fields and fills defaults for a new listing.
func (l *Listing) Normalize() {
	l.Title = strings.TrimSpace(l.Title)
	l.Description = strings.TrimSpace(l.Description)
	l.PropertyType = strings.ToLower(strings.TrimSpace(l.PropertyType))
	l.Address = strings.TrimSpace(l.Address)
	l.ContactName = strings.TrimSpace(l.ContactName)
	l.ContactEmail = strings.ToLower(strings.TrimSpace(l.ContactEmail))
	l.ContactPhone = strings.TrimSpace(l.ContactPhone)
	l.ListingType = Type(strings.ToLower(strings.TrimSpace(string(l.ListingType))))
	if l.ListingType == "" {
		l.ListingType = TypeSale
	}
	l.Images = cleanList(l.Images)
	l.Features = cleanList(l.Features)
}

// Validate checks the fields every listing needs.
func (l *Listing) Validate() error {
	if l.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if l.PropertyType == "" {
		return &ValidationError{Field: "propertyType", Message: "is required"}
	}
	if l.ListingType != TypeSale && l.ListingType != TypeRent {
		return &ValidationError{Field: "listingType", Message: "must be sale or rent"}
	}
	if l.Price < 0 {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	if l.Beds < 0 || l.Baths < 0 {
		return &ValidationError{Field: "beds", Message: "must not be negative"}
	}
	if l.Area < 0 {
		return &ValidationError{Field: "area", Message: "must not be negative"}
	}
	return nil
}

// ValidateSubmission adds the checks for a listing submitted from the public
// form, which must say who to contact.
func (l *Listing) ValidateSubmission() error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.ContactName == "" {
		return &ValidationError{Field: "contactName", Message: "is required"}
	}
	if l.ContactEmail == "" || !strings.Contains(l.ContactEmail, "@") {
		return &ValidationError{Field: "contactEmail", Message: "must be a valid email address"}
	}
	return nil
}

// cleanList drops blank entries and never returns nil, so JSON encodes [].
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	ReviewStatus ReviewStatus
	PropertyType string
	ListingType  Type
	LocationID   int64
	DeveloperID  int64
	FeaturedOnly bool
	MinPrice     float64
	MaxPrice     float64
	MinBeds      int
	Query        string
	Limit        int
	Offset       int
}

// Matches reports whether a listing passes the filter's conditions.
// Limit and Offset are applied by the caller.
func (f Filter) Matches(l *Listing) bool {
	if f.ReviewStatus != "" && l.ReviewStatus != f.ReviewStatus {
		return false
	}
	if f.PropertyType != "" && !strings.EqualFold(l.PropertyType, f.PropertyType) {
		return false
	}
	if f.ListingType != "" && l.ListingType != f.ListingType {
		return false
	}
	if f.LocationID != 0 && (l.LocationID == nil || *l.LocationID != f.LocationID) {
		return false
	}
	if f.DeveloperID != 0 && (l.DeveloperID == nil || *l.DeveloperID != f.DeveloperID) {
		return false
	}
	if f.FeaturedOnly && !l.Featured {
		return false
	}
	if f.MinPrice > 0 && l.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if f.MinBeds > 0 && l.Beds < f.MinBeds {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(l.Title), q) && !strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	return true
}

// Store is the persistence contract shared by every listing backend.
// Each call is a single round trip; Create always stores the listing as
// pending and Update stamps UpdatedAt.
type Store interface {
	List(ctx context.Context, f Filter) ([]*Listing, error)
	Get(ctx context.Context, id int64) (*Listing, error)
	Create(ctx context.Context, l *Listing) (*Listing, error)
	Update(ctx context.Context, id int64, p Patch) (*Listing, error)
	Delete(ctx context.Context, id int64) error
}
