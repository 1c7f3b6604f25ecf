package localstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/user"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func openTest(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realty-local.json")
	s, err := Open(path, opts...)
	require.NoError(t, err)
	return s, path
}

func TestListingRoundTrip(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	listings := s.Listings()

	saved, err := listings.Create(ctx, &listing.Listing{Title: "Loft", PropertyType: "apartment", ReviewStatus: listing.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, listing.StatusPending, saved.ReviewStatus)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, []string{}, saved.Images)

	all, err := listings.List(ctx, listing.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved.ID, all[0].ID)

	require.NoError(t, listings.Delete(ctx, saved.ID))

	all, err = listings.List(ctx, listing.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.ErrorIs(t, listings.Delete(ctx, saved.ID), listing.ErrNotFound)
}

func TestUniqueIDsWithFrozenClock(t *testing.T) {
	s, _ := openTest(t, WithClock(fixedClock()))
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		l, err := s.Listings().Create(ctx, &listing.Listing{Title: "x"})
		require.NoError(t, err)
		assert.False(t, seen[l.ID], "duplicate id %d", l.ID)
		seen[l.ID] = true
	}
}

func TestListingUpdateAndFilter(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	listings := s.Listings()

	a, err := listings.Create(ctx, &listing.Listing{Title: "A", PropertyType: "villa"})
	require.NoError(t, err)
	_, err = listings.Create(ctx, &listing.Listing{Title: "B", PropertyType: "apartment"})
	require.NoError(t, err)

	approved := listing.StatusApproved
	updated, err := listings.Update(ctx, a.ID, listing.Patch{ReviewStatus: &approved})
	require.NoError(t, err)
	assert.Equal(t, listing.StatusApproved, updated.ReviewStatus)
	assert.Equal(t, "A", updated.Title)

	public, err := listings.List(ctx, listing.Filter{ReviewStatus: listing.StatusApproved})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, a.ID, public[0].ID)

	newest, err := listings.List(ctx, listing.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, "B", newest[0].Title)

	_, err = listings.Update(ctx, 1, listing.Patch{})
	assert.ErrorIs(t, err, listing.ErrNotFound)
}

func TestStatsRefreshOnMutation(t *testing.T) {
	s, path := openTest(t, WithPrefix("test_"))
	ctx := context.Background()
	messages := s.Messages()

	m, err := messages.Create(ctx, &message.Message{Name: "Omar", Email: "omar@example.com", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, message.StatusNew, m.Status)
	assert.Equal(t, 1, s.Stats().NewMessages)
	assert.Equal(t, 1, s.Stats().MessagesThisWeek)

	_, err = messages.UpdateStatus(ctx, m.ID, message.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Stats().NewMessages)
	assert.Equal(t, 1, s.Stats().ReadMessages)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "test_contact_messages")
	assert.Contains(t, doc, "test_property_listings")
	assert.Contains(t, doc, "test_admin_stats")

	var cached map[string]int
	require.NoError(t, json.Unmarshal(doc["test_admin_stats"], &cached))
	assert.Equal(t, 1, cached["readMessages"])
}

func TestReopenKeepsData(t *testing.T) {
	s, path := openTest(t)
	ctx := context.Background()

	m, err := s.Messages().Create(ctx, &message.Message{Name: "Omar", Email: "omar@example.com", Message: "Hi"})
	require.NoError(t, err)
	admin, err := s.Users().EnsureAdmin(ctx, "admin")
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Messages().Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Omar", got.Name)

	again, err := reopened.Users().EnsureAdmin(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, 1, reopened.Stats().TotalMessages)

	// New ids continue past the ones already on disk.
	next, err := reopened.Messages().Create(ctx, &message.Message{Name: "Sara", Email: "sara@example.com", Message: "Hello"})
	require.NoError(t, err)
	assert.Greater(t, next.ID, admin.ID)
}

func TestMalformedDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realty-local.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"realty_property_listings": "oops"`), 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	all, err := s.Listings().List(context.Background(), listing.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMalformedKeyIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realty-local.json")
	doc := `{"realty_property_listings": "oops", "realty_contact_messages": [{"id": 7, "name": "Omar", "status": "new"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	msgs, err := s.Messages().List(context.Background(), message.Filter{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(7), msgs[0].ID)
	assert.Equal(t, 1, s.Stats().NewMessages)
}

func TestUsers(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	users := s.Users()

	u, err := users.Create(ctx, "Agent", "viewer")
	require.NoError(t, err)
	assert.Equal(t, "agent", u.Username)

	_, err = users.Create(ctx, "agent", "viewer")
	assert.ErrorIs(t, err, user.ErrExists)

	updated, err := users.UpdateRole(ctx, u.ID, user.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, updated.Role)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s, path := openTest(t)
	listings, messages := s.Listings(), s.Messages()

	kept, err := listings.Create(ctx, &listing.Listing{Title: "Kept", PropertyType: "villa"})
	require.NoError(t, err)
	msg, err := messages.Create(ctx, &message.Message{Name: "Omar", Email: "o@example.com", Message: "Hi"})
	require.NoError(t, err)
	before := s.Stats()

	// A non-empty directory at the document path makes the rename fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

	_, err = listings.Create(ctx, &listing.Listing{Title: "Lost", PropertyType: "villa"})
	require.Error(t, err)
	assert.Error(t, listings.Delete(ctx, kept.ID))
	_, err = listings.Update(ctx, kept.ID, listing.Patch{Title: ptr("Renamed")})
	assert.Error(t, err)
	_, err = messages.UpdateStatus(ctx, msg.ID, message.StatusReplied)
	assert.Error(t, err)
	_, err = s.Users().EnsureAdmin(ctx, "admin")
	assert.Error(t, err)

	all, err := listings.List(ctx, listing.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Kept", all[0].Title)

	gotMsg, err := messages.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, message.StatusNew, gotMsg.Status)

	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, before, s.Stats())

	// Once the path is writable again only the successful changes are persisted.
	require.NoError(t, os.RemoveAll(path))
	_, err = listings.Create(ctx, &listing.Listing{Title: "Second", PropertyType: "villa"})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	all, err = reopened.Listings().List(ctx, listing.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, reopened.Stats().TotalListings)
}

func ptr[T any](v T) *T { return &v }
