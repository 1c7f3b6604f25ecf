// Package localstore keeps listings, messages and the admin user in a single
// JSON document on disk. It is the fallback backend when no database is
// configured and is never synchronized with one.
package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/evcraddock/realty-site/internal/listing"
	"github.com/evcraddock/realty-site/internal/message"
	"github.com/evcraddock/realty-site/internal/stats"
	"github.com/evcraddock/realty-site/internal/user"
)

// DefaultPrefix namespaces every key in the document.
const DefaultPrefix = "realty_"

const (
	keyMessages = "contact_messages"
	keyListings = "property_listings"
	keyStats    = "admin_stats"
	keyUsers    = "users"
)

// Store is the file-backed document. Every mutation rewrites the file and
// refreshes the cached statistics.
type Store struct {
	mu     sync.Mutex
	path   string
	prefix string
	now    func() time.Time
	lastID int64

	listings []*listing.Listing
	messages []*message.Message
	users    []*user.User
	stats    stats.Stats
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the document at path, creating it on first write. A key that
// holds malformed JSON is logged and treated as empty.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, prefix: DefaultPrefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating local store directory: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading local store: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			slog.Warn("local store is not valid JSON, starting empty", "path", path, "error", err)
			doc = map[string]json.RawMessage{}
		}
	}

	s.listings = decodeKey[*listing.Listing](doc, s.key(keyListings))
	s.messages = decodeKey[*message.Message](doc, s.key(keyMessages))
	s.users = decodeKey[*user.User](doc, s.key(keyUsers))
	for _, l := range s.listings {
		s.lastID = max(s.lastID, l.ID)
	}
	for _, m := range s.messages {
		s.lastID = max(s.lastID, m.ID)
	}
	for _, u := range s.users {
		s.lastID = max(s.lastID, u.ID)
	}
	s.stats = stats.Compute(s.listings, s.messages, s.now())

	return s, nil
}

func decodeKey[T any](doc map[string]json.RawMessage, key string) []T {
	out := []T{}
	raw, ok := doc[key]
	if !ok {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.Warn("ignoring malformed local store key", "key", key, "error", err)
		return []T{}
	}
	return out
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Listings returns the listing view of the store.
func (s *Store) Listings() listing.Store { return &listingStore{s} }

// Messages returns the message view of the store.
func (s *Store) Messages() message.Store { return &messageStore{s} }

// Users returns the user view of the store.
func (s *Store) Users() user.Store { return &userStore{s} }

// Stats returns the statistics written with the last mutation.
func (s *Store) Stats() stats.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close is a no-op; every mutation is already on disk.
func (s *Store) Close() error { return nil }

// nextID derives an id from the clock, bumped past the last one issued.
// Caller holds mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// snapshot holds the collections a mutation proposes to write.
type snapshot struct {
	listings []*listing.Listing
	messages []*message.Message
	users    []*user.User
}

// current returns a snapshot whose slices may be modified without touching
// the store. Caller holds mu.
func (s *Store) current() snapshot {
	return snapshot{
		listings: slices.Clone(s.listings),
		messages: slices.Clone(s.messages),
		users:    slices.Clone(s.users),
	}
}

// commit writes next to disk and only then makes it the store's state, so a
// failed write leaves memory and the cached statistics unchanged.
// Caller holds mu.
func (s *Store) commit(next snapshot) error {
	st := stats.Compute(next.listings, next.messages, s.now())

	doc := map[string]any{
		s.key(keyListings): next.listings,
		s.key(keyMessages): next.messages,
		s.key(keyUsers):    next.users,
		s.key(keyStats):    st,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding local store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing local store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing local store: %w", err)
	}

	s.listings, s.messages, s.users, s.stats = next.listings, next.messages, next.users, st
	return nil
}

// page sorts newest first and applies offset and limit.
func page[T any](items []T, created func(T) (time.Time, int64), limit, offset int) []T {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := created(items[i])
		tj, idj := created(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
