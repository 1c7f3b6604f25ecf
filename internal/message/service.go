package message

import (
	"context"
	"fmt"
)

// Service applies message rules on top of a Store.
type Service struct {
	store  Store
	strict bool
}

// NewService creates a message service. strict limits status changes to
// forward moves.
func NewService(store Store, strict bool) *Service {
	return &Service{store: store, strict: strict}
}

// Submit validates and stores a visitor's message with status new.
func (s *Service) Submit(ctx context.Context, m *Message) (*Message, error) {
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.Status = StatusNew

	saved, err := s.store.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Message, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Message, error) {
	return s.store.List(ctx, f)
}

// SetStatus parses the requested status, checks the transition and stores it.
func (s *Service) SetStatus(ctx context.Context, id int64, raw string) (*Message, error) {
	to, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Transition(current.Status, to, s.strict); err != nil {
		return nil, err
	}

	return s.store.UpdateStatus(ctx, id, to)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
