package localstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/evcraddock/realty-site/internal/listing"
)

type listingStore struct{ s *Store }

func (v *listingStore) List(_ context.Context, f listing.Filter) ([]*listing.Listing, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := []*listing.Listing{}
	for _, l := range v.s.listings {
		if f.Matches(l) {
			c := *l
			out = append(out, &c)
		}
	}
	return page(out, func(l *listing.Listing) (time.Time, int64) { return l.CreatedAt, l.ID }, f.Limit, f.Offset), nil
}

func (v *listingStore) Get(_ context.Context, id int64) (*listing.Listing, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return nil, fmt.Errorf("listing %d: %w", id, listing.ErrNotFound)
	}
	c := *v.s.listings[i]
	return &c, nil
}

func (v *listingStore) Create(_ context.Context, l *listing.Listing) (*listing.Listing, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	c := *l
	c.ID = v.s.nextID()
	c.ReviewStatus = listing.StatusPending
	c.CreatedAt = v.s.now()
	c.UpdatedAt = c.CreatedAt
	c.Images = nonNil(c.Images)
	c.Features = nonNil(c.Features)

	next := v.s.current()
	next.listings = append(next.listings, &c)
	if err := v.s.commit(next); err != nil {
		return nil, err
	}
	out := c
	return &out, nil
}

func (v *listingStore) Update(_ context.Context, id int64, p listing.Patch) (*listing.Listing, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return nil, fmt.Errorf("listing %d: %w", id, listing.ErrNotFound)
	}
	c := *v.s.listings[i]
	p.Apply(&c)
	c.UpdatedAt = v.s.now()

	next := v.s.current()
	next.listings[i] = &c
	if err := v.s.commit(next); err != nil {
		return nil, err
	}
	out := c
	return &out, nil
}

func (v *listingStore) Delete(_ context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return fmt.Errorf("listing %d: %w", id, listing.ErrNotFound)
	}
	next := v.s.current()
	next.listings = slices.Delete(next.listings, i, i+1)
	return v.s.commit(next)
}

func (v *listingStore) index(id int64) int {
	return slices.IndexFunc(v.s.listings, func(l *listing.Listing) bool { return l.ID == id })
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
