package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisPersisterContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := context.Background()

	redisContainer, err := testRedis.Run(c, "redis:7.4.1-alpine3.20")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	connStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	persister := NewRedisPersister(client, "cart-storage", time.Minute)

	t.Run("given saved snapshot should expire with ttl", func(t *testing.T) {
		sessionID := uuid.New()
		cart, favorites, envelope := sampleEnvelope()

		require.NoError(t, persister.Save(c, sessionID, envelope))

		ttl, err := client.TTL(c, persister.cacheKey(sessionID)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)

		actual, err := persister.Load(c, sessionID)
		require.NoError(t, err)
		assertSameAggregate(t, cart, favorites, actual)
	})
}
