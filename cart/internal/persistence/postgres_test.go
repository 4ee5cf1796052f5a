package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	c := context.Background()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "..", "migrations", "20261018000000_create_table_cart_snapshots.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing postgres config with error: %s", err)
	}
	pgConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)

	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}
	return pool
}

func TestPostgresPersister(t *testing.T) {
	pool := setupPostgres(t)
	persister := NewPostgresPersister(pool)
	c := context.Background()

	t.Run("given saved snapshot should load same aggregate", func(t *testing.T) {
		sessionID := uuid.New()
		cart, favorites, envelope := sampleEnvelope()

		require.NoError(t, persister.Save(c, sessionID, envelope))

		actual, err := persister.Load(c, sessionID)
		require.NoError(t, err)
		assertSameAggregate(t, cart, favorites, actual)
	})

	t.Run("given second save should upsert snapshot", func(t *testing.T) {
		sessionID := uuid.New()
		_, _, envelope := sampleEnvelope()

		require.NoError(t, persister.Save(c, sessionID, envelope))
		require.NoError(t, persister.Save(c, sessionID, Envelope{Version: CurrentVersion, SavedAt: time.Now()}))

		actual, err := persister.Load(c, sessionID)
		require.NoError(t, err)
		assert.Empty(t, actual.Items)

		var count int
		require.NoError(t, pool.QueryRow(c, "SELECT COUNT(*) FROM cart_snapshots WHERE session_id = $1", sessionID).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("given unknown session should return not found", func(t *testing.T) {
		_, err := persister.Load(c, uuid.New())
		assert.ErrorIs(t, err, inErrors.ErrSnapshotNotFound)
	})
}
