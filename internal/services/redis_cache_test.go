package services

import (
	"context"
	"testing"
	"time"

	"github.com/joshua-takyi/devevent/internal/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStatsCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
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
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client, err := connect.RedisConnect(ctx, "redis://"+endpoint)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisStatsCache(client)

	_, ok, err := cache.Get(ctx, "overview")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "overview", []byte(`{"totalEvents":1}`), time.Minute))
	raw, ok, err := cache.Get(ctx, "overview")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"totalEvents":1}`, string(raw))

	ttl, err := client.TTL(ctx, "devevent:stats:overview").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
