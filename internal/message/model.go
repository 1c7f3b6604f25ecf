// Package message provides contact messages sent from the public site and
// their handling status.
package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a message id does not exist.
	ErrNotFound = errors.New("message not found")

	// ErrIllegalTransition is returned in strict mode for a status change
	// outside new -> read -> replied.
	ErrIllegalTransition = errors.New("illegal message status transition")

	// ErrInvalid is matched by every ValidationError.
	ErrInvalid = errors.New("invalid message")
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

// Status is how far the admin has handled a message.
type Status string

const (
	StatusNew     Status = "new"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

// Statuses lists every known status.
var Statuses = []Status{StatusNew, StatusRead, StatusReplied}

var aliases = map[string]Status{
	"contacted": StatusRead,
	"closed":    StatusReplied,
}

// ParseStatus converts a string to a known status. The older inquiry
// wording "contacted" and "closed" is accepted for read and replied.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if st, ok := aliases[key]; ok {
		return st, nil
	}
	for _, known := range Statuses {
		if Status(key) == known {
			return known, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("must be one of new, read, replied (got %q)", s)}
}

var forward = map[Status][]Status{
	StatusNew:  {StatusRead, StatusReplied},
	StatusRead: {StatusReplied},
}

// Transition checks a status change. Without strict anything goes; with
// strict a message only moves forward.
func Transition(from, to Status, strict bool) error {
	if !strict || from == to {
		return nil
	}
	for _, next := range forward[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}

// Message is an inquiry from a site visitor, optionally about a property.
type Message struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	PropertyID *int64    `json:"propertyId"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Normalize trims the text fields.
func (m *Message) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Phone = strings.TrimSpace(m.Phone)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
}

// Validate checks the fields a visitor must fill in.
func (m *Message) Validate() error {
	if m.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if m.Email == "" || !strings.Contains(m.Email, "@") {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if m.Message == "" {
		return &ValidationError{Field: "message", Message: "is required"}
	}
	return nil
}

// Filter narrows List results.
type Filter struct {
	Status     Status
	PropertyID int64
	Limit      int
	Offset     int
}

// Matches reports whether a message passes the status and property
// conditions. Limit and Offset are applied by the caller.
func (f Filter) Matches(m *Message) bool {
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.PropertyID != 0 && (m.PropertyID == nil || *m.PropertyID != f.PropertyID) {
		return false
	}
	return true
}

// Store is the persistence contract shared by every message backend.
type Store interface {
	List(ctx context.Context, f Filter) ([]*Message, error)
	Get(ctx context.Context, id int64) (*Message, error)
	Create(ctx context.Context, m *Message) (*Message, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Message, error)
	Delete(ctx context.Context, id int64) error
}
