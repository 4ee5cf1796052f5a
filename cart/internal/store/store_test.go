package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/cart/internal/aggregate"
	"github.com/Alturino/storefront/cart/internal/persistence"
	inErrors "github.com/Alturino/storefront/internal/errors"
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

func candle(id string, price int64, discount int64) productRes.Product {
	return productRes.Product{
		ID:       id,
		Name:     "candle " + id,
		Slug:     "candle-" + id,
		Price:    decimal.NewFromInt(price),
		Discount: decimal.NewFromInt(discount),
	}
}

// fakePersister records saves and can be told to fail.
type fakePersister struct {
	mu       sync.Mutex
	envelope *persistence.Envelope
	loadErr  error
	saveErr  error
	saves    int
	loads    int
}

func (f *fakePersister) Load(_ context.Context, _ uuid.UUID) (persistence.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return persistence.Envelope{}, f.loadErr
	}
	if f.envelope == nil {
		return persistence.Envelope{}, inErrors.ErrSnapshotNotFound
	}
	return *f.envelope, nil
}

func (f *fakePersister) Save(_ context.Context, _ uuid.UUID, envelope persistence.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.envelope = &envelope
	return nil
}

func newRedisPersister(t *testing.T) *persistence.RedisPersister {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return persistence.NewRedisPersister(client, "cart-storage", 0)
}

func TestOpen(t *testing.T) {
	c := context.Background()

	testCases := []struct {
		name      string
		persister *fakePersister
	}{
		{
			name:      "given no snapshot should open empty store",
			persister: &fakePersister{},
		},
		{
			name:      "given unreachable storage should open empty store",
			persister: &fakePersister{loadErr: errors.New("connection refused")},
		},
		{
			name:      "given corrupted snapshot should open empty store",
			persister: &fakePersister{loadErr: inErrors.ErrSnapshotCorrupted},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Open(c, uuid.New(), tc.persister)
			assert.Empty(t, s.GroupedItems())
			assert.Empty(t, s.FavoriteProducts())
			assert.True(t, s.Total().IsZero())
			assert.Equal(t, 1, tc.persister.loads)
		})
	}
}

func TestStoreRehydration(t *testing.T) {
	c := context.Background()

	t.Run("given mutations should restore same state in new store", func(t *testing.T) {
		persister := newRedisPersister(t)
		sessionID := uuid.New()

		s := Open(c, sessionID, persister)
		s.Add(c, candle("p1", 90, 10), aggregate.Customization{"wick": "wood"})
		s.Add(c, candle("p1", 90, 10), aggregate.Customization{"wick": "wood"})
		s.Add(c, candle("p2", 40, 0), nil)
		s.Toggle(c, candle("p3", 10, 0))

		restored := Open(c, sessionID, persister)
		expected := s.GroupedItems()
		actual := restored.GroupedItems()
		require.Len(t, actual, len(expected))
		for i := range expected {
			assert.Equal(t, expected[i].Key(), actual[i].Key())
			assert.Equal(t, expected[i].Quantity, actual[i].Quantity)
		}
		assert.Equal(t, 2, restored.QuantityForLineItem("p1", aggregate.Customization{"wick": "wood"}))
		assert.True(t, restored.Total().Equal(decimal.NewFromInt(220)))
		assert.True(t, restored.IsFavorite("p3"))
	})

	t.Run("given other session should not share state", func(t *testing.T) {
		persister := newRedisPersister(t)

		s := Open(c, uuid.New(), persister)
		s.Add(c, candle("p1", 90, 10), nil)

		other := Open(c, uuid.New(), persister)
		assert.Empty(t, other.GroupedItems())
	})
}

func TestStoreMutations(t *testing.T) {
	c := context.Background()

	t.Run("given failing save should keep in-memory mutation", func(t *testing.T) {
		persister := &fakePersister{saveErr: errors.New("disk full")}
		s := Open(c, uuid.New(), persister)

		item := s.Add(c, candle("p1", 90, 10), nil)
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, 1, s.TotalQuantity())
		assert.Equal(t, 1, persister.saves)
	})

	t.Run("given remove one on missing line should not write", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)

		remaining, found := s.RemoveOne(c, "p1", nil)
		assert.False(t, found)
		assert.Zero(t, remaining)
		assert.False(t, s.DeleteLine(c, "p1", nil))
		assert.False(t, s.RemoveFavorite(c, "p1"))
		assert.Zero(t, persister.saves)
	})

	t.Run("given remove one to zero should drop line", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)
		s.Add(c, candle("p1", 90, 10), nil)
		s.Add(c, candle("p1", 90, 10), aggregate.Customization{"wick": "cotton"})

		remaining, found := s.RemoveOne(c, "p1", nil)
		assert.True(t, found)
		assert.Zero(t, remaining)
		assert.Equal(t, 1, s.TotalQuantityForProduct("p1"))
		require.NotNil(t, persister.envelope)
		assert.Len(t, persister.envelope.Items, 1)
	})

	t.Run("given reset should clear cart and keep favorites", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)
		s.Add(c, candle("p1", 90, 10), nil)
		s.Toggle(c, candle("p1", 90, 10))

		s.Reset(c)
		assert.Empty(t, s.GroupedItems())
		assert.True(t, s.IsFavorite("p1"))

		s.ResetFavorites(c)
		assert.Empty(t, s.FavoriteProducts())
		require.NotNil(t, persister.envelope)
		assert.Empty(t, persister.envelope.Items)
		assert.Empty(t, persister.envelope.FavoriteProduct)
	})

	t.Run("given summary should match individual queries", func(t *testing.T) {
		s := Open(c, uuid.New(), &fakePersister{})
		s.Add(c, candle("p1", 90, 10), nil)
		s.Add(c, candle("p2", 50, 0), nil)

		summary := s.Summary()
		assert.Len(t, summary.Items, 2)
		assert.Equal(t, 2, summary.TotalQuantity)
		assert.True(t, summary.Total.Equal(decimal.NewFromInt(140)))
		assert.True(t, summary.SubTotal.Equal(decimal.NewFromInt(149)))
		assert.True(t, summary.Savings.Equal(decimal.NewFromInt(9)))
	})

	t.Run("given concurrent adds should count every add", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Add(c, candle("p1", 90, 10), nil)
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, s.QuantityForLineItem("p1", nil))
		assert.Equal(t, 50, persister.saves)
		require.NotNil(t, persister.envelope)
		assert.Equal(t, 50, persister.envelope.Items[0].Quantity)
	})

	t.Run("given checkout should take only submitted quantities off cart", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)
		s.Add(c, candle("p1", 90, 10), nil)

		err := s.Checkout(c, func(summary Summary) error {
			assert.Equal(t, 1, summary.TotalQuantity)
			s.Add(c, candle("p1", 90, 10), nil)
			s.Add(c, candle("p2", 50, 0), nil)
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, 1, s.QuantityForLineItem("p1", nil))
		assert.Equal(t, 1, s.QuantityForLineItem("p2", nil))
		require.NotNil(t, persister.envelope)
		assert.Len(t, persister.envelope.Items, 2)
	})

	t.Run("given failed checkout should keep cart", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)
		s.Add(c, candle("p1", 90, 10), nil)

		submitErr := errors.New("order endpoint down")
		err := s.Checkout(c, func(Summary) error { return submitErr })
		assert.ErrorIs(t, err, submitErr)
		assert.Equal(t, 1, s.QuantityForLineItem("p1", nil))
		assert.Equal(t, 1, persister.saves)
	})

	t.Run("given submitted line deleted meanwhile should not write", func(t *testing.T) {
		persister := &fakePersister{}
		s := Open(c, uuid.New(), persister)
		item := s.Add(c, candle("p1", 90, 10), nil)
		s.DeleteLine(c, "p1", nil)

		s.RemoveSubmitted(c, []aggregate.LineItem{item})
		assert.Zero(t, s.TotalQuantity())
		assert.Equal(t, 2, persister.saves)
	})
}
