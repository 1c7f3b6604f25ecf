package message

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"new", StatusNew, false},
		{" Read ", StatusRead, false},
		{"REPLIED", StatusReplied, false},
		{"contacted", StatusRead, false},
		{"closed", StatusReplied, false},
		{"archived", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("err = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		strict   bool
		ok       bool
	}{
		{StatusNew, StatusRead, true, true},
		{StatusNew, StatusReplied, true, true},
		{StatusRead, StatusReplied, true, true},
		{StatusRead, StatusRead, true, true},
		{StatusReplied, StatusNew, true, false},
		{StatusRead, StatusNew, true, false},
		{StatusReplied, StatusNew, false, true},
	}

	for _, tt := range tests {
		err := Transition(tt.from, tt.to, tt.strict)
		if tt.ok && err != nil {
			t.Errorf("%s -> %s (strict=%v): unexpected error %v", tt.from, tt.to, tt.strict, err)
		}
		if !tt.ok && !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("%s -> %s (strict=%v): err = %v, want ErrIllegalTransition", tt.from, tt.to, tt.strict, err)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Message{Name: "Omar", Email: "omar@example.com", Message: "Is the villa still available?"}

	tests := []struct {
		name  string
		edit  func(m *Message)
		field string
	}{
		{"valid", func(*Message) {}, ""},
		{"no name", func(m *Message) { m.Name = "" }, "name"},
		{"bad email", func(m *Message) { m.Email = "omar" }, "email"},
		{"no message", func(m *Message) { m.Message = "" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.edit(&m)
			err := m.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestFilterWhere(t *testing.T) {
	f := Filter{Status: StatusNew, PropertyID: 7, Limit: 10}

	tail, args := f.where(pgPlaceholder)
	want := " WHERE status = $1 AND property_id = $2 ORDER BY created_at DESC, id DESC LIMIT $3"
	if tail != want {
		t.Errorf("tail = %q, want %q", tail, want)
	}
	if len(args) != 3 {
		t.Errorf("got %d args, want 3", len(args))
	}
}
