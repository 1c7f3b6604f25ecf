package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "realty:session:"

// RedisStore keeps sessions in Redis so they survive restarts and can be
// shared between instances. Expiry is enforced by the key TTL.
type RedisStore struct {
	client  *redis.Client
	cookies cookieCodec
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, opts CookieOptions) *RedisStore {
	return &RedisStore{client: client, cookies: newCodec(opts)}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Create(ctx context.Context, w http.ResponseWriter, sess Session) (Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return Session{}, fmt.Errorf("generating session ID: %w", err)
	}
	sess.ID = id
	sess.ExpiresAt = time.Now().Add(s.cookies.ttl)

	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encoding session: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, data, s.cookies.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("storing session: %w", err)
	}

	s.cookies.set(w, id, sess.ExpiresAt)
	return sess, nil
}

func (s *RedisStore) Validate(r *http.Request) (*Session, error) {
	id, err := s.cookies.read(r)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Get(r.Context(), redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer s.cookies.clear(w)

	id, err := s.cookies.read(r)
	if err != nil {
		return nil
	}
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (s *RedisStore) Cleanup(context.Context) error { return nil }
