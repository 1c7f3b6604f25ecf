package user

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/evcraddock/realty-site/internal/db"
)

func testRepo(t *testing.T) *SQLRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})
	return NewSQLRepository(d)
}

func TestCreateAndGet(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	u, err := r.Create(ctx, " Admin ", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Username != "admin" {
		t.Errorf("username = %q, want %q", u.Username, "admin")
	}
	if u.Role != RoleAdmin {
		t.Errorf("role = %q, want %q", u.Role, RoleAdmin)
	}

	got, err := r.GetByUsername(ctx, "ADMIN")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("id = %d, want %d", got.ID, u.ID)
	}
}

func TestCreateDuplicate(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	if _, err := r.Create(ctx, "admin", RoleAdmin); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create(ctx, "admin", RoleAdmin); !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}
}

func TestCreateEmptyUsername(t *testing.T) {
	r := testRepo(t)

	if _, err := r.Create(context.Background(), "  ", RoleAdmin); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestGetNotFound(t *testing.T) {
	r := testRepo(t)

	if _, err := r.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEnsureAdminStableID(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	first, err := r.EnsureAdmin(ctx, "admin")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	second, err := r.EnsureAdmin(ctx, "admin")
	if err != nil {
		t.Fatalf("ensure admin again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}

	users, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("got %d users, want 1", len(users))
	}
}

func TestUpdateRoleAndDelete(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	u, err := r.Create(ctx, "agent", "viewer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := r.UpdateRole(ctx, u.ID, RoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != RoleAdmin {
		t.Errorf("role = %q, want admin", updated.Role)
	}

	if err := r.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := r.UpdateRole(ctx, u.ID, RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete err = %v, want ErrNotFound", err)
	}
}
