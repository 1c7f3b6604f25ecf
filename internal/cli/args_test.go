package cli

import (
	"testing"
)

func TestCommandsRequireID(t *testing.T) {
	for _, name := range []string{"show", "approve", "reject", "remove", "delete-message"} {
		t.Run(name, func(t *testing.T) {
			if _, err := executeCommand(name); err == nil {
				t.Fatal("expected error when no ID provided")
			}
		})
	}
}

func TestCommandsRejectNonNumericID(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REALTY_SERVER_URL", "http://127.0.0.1:1")

	for _, name := range []string{"show", "approve", "reject", "remove", "delete-message"} {
		t.Run(name, func(t *testing.T) {
			if _, err := executeCommand(name, "abc"); err == nil {
				t.Fatal("expected error for non-numeric ID")
			}
		})
	}
}

func TestMarkRequiresTwoArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{"mark"}},
		{"one arg", []string{"mark", "1"}},
		{"three args", []string{"mark", "1", "read", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMarkRejectsUnknownStatus(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REALTY_SERVER_URL", "http://127.0.0.1:1")

	if _, err := executeCommand("mark", "1", "archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestListingsRejectsUnknownStatus(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REALTY_SERVER_URL", "http://127.0.0.1:1")

	if _, err := executeCommand("listings", "--status", "published"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestServeAcceptsNoArgs(t *testing.T) {
	if _, err := executeCommand("serve", "extra"); err == nil {
		t.Fatal("expected error for extra args")
	}
}
