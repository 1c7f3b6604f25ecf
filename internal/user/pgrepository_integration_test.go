//go:build integration

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/realty-site/internal/pgdb"
)

func TestPGRepository(t *testing.T) {
	r := NewPGRepository(pgdb.NewTestPool(t))
	ctx := context.Background()

	admin, err := r.EnsureAdmin(ctx, "Admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	again, err := r.EnsureAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	_, err = r.Create(ctx, "admin", RoleAdmin)
	assert.ErrorIs(t, err, ErrExists)

	users, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, r.Delete(ctx, admin.ID))
	_, err = r.Get(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
