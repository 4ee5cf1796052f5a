package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alturino/storefront/cart/internal/aggregate"
	inErrors "github.com/Alturino/storefront/internal/errors"
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

const CurrentVersion = 1

// Envelope is the stored form of one session's cart and favorites. New fields must stay additive;
// payloads written by a newer version are still decoded.
type Envelope struct {
	Version         int                  `json:"version"`
	Items           []aggregate.LineItem `json:"items"`
	FavoriteProduct []productRes.Product `json:"favoriteProduct"`
	SavedAt         time.Time            `json:"savedAt"`
}

func NewEnvelope(cart *aggregate.Cart, favorites *aggregate.Favorites, savedAt time.Time) Envelope {
	return Envelope{
		Version:         CurrentVersion,
		Items:           cart.GroupedItems(),
		FavoriteProduct: favorites.Products(),
		SavedAt:         savedAt,
	}
}

func (e Envelope) Cart() *aggregate.Cart {
	return aggregate.NewCart(e.Items...)
}

func (e Envelope) Favorites() *aggregate.Favorites {
	return aggregate.NewFavorites(e.FavoriteProduct...)
}

func Encode(e Envelope) ([]byte, error) {
	if e.Items == nil {
		e.Items = []aggregate.LineItem{}
	}
	if e.FavoriteProduct == nil {
		e.FavoriteProduct = []productRes.Product{}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed marshaling envelope with error=%w", err)
	}
	return data, nil
}

func Decode(data []byte) (Envelope, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	e := Envelope{}
	if err := decoder.Decode(&e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", inErrors.ErrSnapshotCorrupted, err)
	}
	return e, nil
}

// Persister stores the latest snapshot of a session. Save replaces whatever was stored before.
type Persister interface {
	Load(c context.Context, sessionID uuid.UUID) (Envelope, error)
	Save(c context.Context, sessionID uuid.UUID, envelope Envelope) error
}
