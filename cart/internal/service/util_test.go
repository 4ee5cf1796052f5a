package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/internal/persistence"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/internal/config"
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

func setup(t *testing.T, orderURL string) (CartService, *persistence.RedisPersister) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	persister := persistence.NewRedisPersister(client, "cart-storage", 0)
	registry := store.NewRegistry(persister, time.Minute)
	return NewCartService(registry, config.Order{SubmissionURL: orderURL, Timeout: 5 * time.Second}), persister
}

func product(id string, price int64, discount int64) productRes.Product {
	return productRes.Product{
		ID:       id,
		Name:     "mug " + id,
		Slug:     "mug-" + id,
		Price:    decimal.NewFromInt(price),
		Discount: decimal.NewFromInt(discount),
	}
}

var background = context.Background()
