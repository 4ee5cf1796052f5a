package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

func setupRedis(t *testing.T) (*RedisPersister, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisPersister(client, "cart-storage", time.Hour), mr
}

func TestRedisPersister(t *testing.T) {
	c := context.Background()

	t.Run("given saved snapshot should load same aggregate", func(t *testing.T) {
		persister, mr := setupRedis(t)
		sessionID := uuid.New()
		cart, favorites, envelope := sampleEnvelope()

		require.NoError(t, persister.Save(c, sessionID, envelope))
		assert.True(t, mr.Exists("cart-storage:"+sessionID.String()))
		assert.Equal(t, time.Hour, mr.TTL("cart-storage:"+sessionID.String()))

		actual, err := persister.Load(c, sessionID)
		require.NoError(t, err)
		assertSameAggregate(t, cart, favorites, actual)
	})

	t.Run("given second save should overwrite snapshot", func(t *testing.T) {
		persister, _ := setupRedis(t)
		sessionID := uuid.New()
		_, _, envelope := sampleEnvelope()

		require.NoError(t, persister.Save(c, sessionID, envelope))
		require.NoError(t, persister.Save(c, sessionID, Envelope{Version: CurrentVersion}))

		actual, err := persister.Load(c, sessionID)
		require.NoError(t, err)
		assert.Empty(t, actual.Items)
		assert.Empty(t, actual.FavoriteProduct)
	})

	t.Run("given unknown session should return not found", func(t *testing.T) {
		persister, _ := setupRedis(t)
		_, err := persister.Load(c, uuid.New())
		assert.ErrorIs(t, err, inErrors.ErrSnapshotNotFound)
	})

	t.Run("given corrupted blob should return corrupted error", func(t *testing.T) {
		persister, mr := setupRedis(t)
		sessionID := uuid.New()
		require.NoError(t, mr.Set("cart-storage:"+sessionID.String(), "not json"))

		_, err := persister.Load(c, sessionID)
		assert.ErrorIs(t, err, inErrors.ErrSnapshotCorrupted)
	})

	t.Run("given unavailable redis should return error", func(t *testing.T) {
		persister, mr := setupRedis(t)
		mr.Close()

		_, err := persister.Load(c, uuid.New())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, inErrors.ErrSnapshotNotFound)

		err = persister.Save(c, uuid.New(), Envelope{})
		assert.Error(t, err)
	})
}
