package listing

import (
	"context"
	"fmt"
)

// Service holds the listing business rules on top of a Store.
type Service struct {
	store  Store
	strict bool
}

// NewService creates a listing service. With strictReview set, review status
// changes must follow the pending -> approved|rejected table.
func NewService(store Store, strictReview bool) *Service {
	return &Service{store: store, strict: strictReview}
}

// Submit stores a listing from the public form. Its review status is always
// pending regardless of what the submitter sent.
func (s *Service) Submit(ctx context.Context, l *Listing) (*Listing, error) {
	l.Normalize()
	if err := l.ValidateSubmission(); err != nil {
		return nil, err
	}
	l.ReviewStatus = StatusPending

	saved, err := s.store.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("saving listing: %w", err)
	}
	return saved, nil
}

// Create stores a listing entered by the admin. Contact details are optional
// but the listing still starts as pending.
func (s *Service) Create(ctx context.Context, l *Listing) (*Listing, error) {
	l.Normalize()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.ReviewStatus = StatusPending

	saved, err := s.store.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("saving listing: %w", err)
	}
	return saved, nil
}

// Get returns a single listing.
func (s *Service) Get(ctx context.Context, id int64) (*Listing, error) {
	return s.store.Get(ctx, id)
}

// GetApproved returns a listing only if it is publicly visible.
func (s *Service) GetApproved(ctx context.Context, id int64) (*Listing, error) {
	l, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.ReviewStatus != StatusApproved {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	return l, nil
}

// List returns listings matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]*Listing, error) {
	return s.store.List(ctx, f)
}

// ListApproved returns the publicly visible listings.
func (s *Service) ListApproved(ctx context.Context, f Filter) ([]*Listing, error) {
	f.ReviewStatus = StatusApproved
	return s.store.List(ctx, f)
}

// Update validates and applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (*Listing, error) {
	p.normalize()

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.ReviewStatus != nil {
		to, err := ParseReviewStatus(string(*p.ReviewStatus))
		if err != nil {
			return nil, err
		}
		if err := Transition(current.ReviewStatus, to, s.strict); err != nil {
			return nil, err
		}
		p.ReviewStatus = &to
	}

	merged := *current
	p.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, id, p)
}

// SetReviewStatus moves a listing to a new review status.
func (s *Service) SetReviewStatus(ctx context.Context, id int64, status ReviewStatus) (*Listing, error) {
	return s.Update(ctx, id, Patch{ReviewStatus: &status})
}

// Delete removes a listing permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
