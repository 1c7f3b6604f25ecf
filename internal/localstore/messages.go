package localstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/evcraddock/realty-site/internal/message"
)

type messageStore struct{ s *Store }

func (v *messageStore) List(_ context.Context, f message.Filter) ([]*message.Message, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := []*message.Message{}
	for _, m := range v.s.messages {
		if f.Matches(m) {
			c := *m
			out = append(out, &c)
		}
	}
	return page(out, func(m *message.Message) (time.Time, int64) { return m.CreatedAt, m.ID }, f.Limit, f.Offset), nil
}

func (v *messageStore) Get(_ context.Context, id int64) (*message.Message, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return nil, fmt.Errorf("message %d: %w", id, message.ErrNotFound)
	}
	c := *v.s.messages[i]
	return &c, nil
}

func (v *messageStore) Create(_ context.Context, m *message.Message) (*message.Message, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	c := *m
	c.ID = v.s.nextID()
	c.Status = message.StatusNew
	c.CreatedAt = v.s.now()
	c.UpdatedAt = c.CreatedAt

	next := v.s.current()
	next.messages = append(next.messages, &c)
	if err := v.s.commit(next); err != nil {
		return nil, err
	}
	out := c
	return &out, nil
}

func (v *messageStore) UpdateStatus(_ context.Context, id int64, status message.Status) (*message.Message, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return nil, fmt.Errorf("message %d: %w", id, message.ErrNotFound)
	}
	c := *v.s.messages[i]
	c.Status = status
	c.UpdatedAt = v.s.now()

	next := v.s.current()
	next.messages[i] = &c
	if err := v.s.commit(next); err != nil {
		return nil, err
	}
	out := c
	return &out, nil
}

func (v *messageStore) Delete(_ context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	i := v.index(id)
	if i < 0 {
		return fmt.Errorf("message %d: %w", id, message.ErrNotFound)
	}
	next := v.s.current()
	next.messages = slices.Delete(next.messages, i, i+1)
	return v.s.commit(next)
}

func (v *messageStore) index(id int64) int {
	return slices.IndexFunc(v.s.messages, func(m *message.Message) bool { return m.ID == id })
}
