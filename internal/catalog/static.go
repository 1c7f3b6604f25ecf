package catalog

import (
	"context"
	"fmt"
	"sort"
)

// Static serves the built-in catalog from memory. It backs the local store,
// which has no tables to seed.
type Static struct {
	developers []Developer
	locations  []Location
}

// NewStatic creates a catalog over the built-in seed data.
func NewStatic() *Static {
	s := &Static{developers: Developers(), locations: Locations()}
	sort.Slice(s.developers, func(i, j int) bool { return s.developers[i].Name < s.developers[j].Name })
	sort.Slice(s.locations, func(i, j int) bool { return s.locations[i].Name < s.locations[j].Name })
	return s
}

func (s *Static) ListDevelopers(_ context.Context, featuredOnly bool) ([]*Developer, error) {
	out := []*Developer{}
	for i := range s.developers {
		if featuredOnly && !s.developers[i].Featured {
			continue
		}
		d := s.developers[i]
		out = append(out, &d)
	}
	return out, nil
}

func (s *Static) GetDeveloper(_ context.Context, id int64) (*Developer, error) {
	for _, d := range s.developers {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("developer %d: %w", id, ErrNotFound)
}

func (s *Static) ListLocations(_ context.Context, featuredOnly bool) ([]*Location, error) {
	out := []*Location{}
	for i := range s.locations {
		if featuredOnly && !s.locations[i].Featured {
			continue
		}
		l := s.locations[i]
		out = append(out, &l)
	}
	return out, nil
}

func (s *Static) GetLocation(_ context.Context, id int64) (*Location, error) {
	for _, l := range s.locations {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
}
