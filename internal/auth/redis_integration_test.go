//go:build integration

package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	client, err := DialRedis(ctx, startRedis(t), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, CookieOptions{Secret: "s", TTL: time.Minute})

	w := httptest.NewRecorder()
	created, err := store.Create(ctx, w, Session{UserID: 1, Username: "admin", Role: "admin"})
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, redisKeyPrefix+created.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	c := sessionCookie(t, w)
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(c)
	s, err := store.Validate(r)
	require.NoError(t, err)
	assert.Equal(t, "admin", s.Username)

	require.NoError(t, store.Destroy(ctx, httptest.NewRecorder(), r))
	_, err = store.Validate(r)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
