package session_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()
	addr, cleanup := startRedis(ctx, t)
	defer cleanup()

	client, err := session.NewRedisClient("redis://"+addr+"/0", "", 0)
	require.NoError(t, err)
	defer client.Close()

	store := session.NewRedisStore(client, "animebot:test:", 2*time.Second)
	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	st := session.State{
		Kind:    session.KindChannel,
		Step:    "link",
		Channel: &session.ChannelDraft{Kind: po.ChannelSub, Mode: po.ModeRequest, ChannelID: -1001234567890},
	}
	require.NoError(t, store.Set(ctx, 42, st))

	got, ok, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)

	ttl, err := client.TTL(ctx, "animebot:test:42").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Clear(ctx, 42))
	_, ok, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func startRedis(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skip integration: cannot start redis container: %v", err)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cleanup := func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), cleanup
}
