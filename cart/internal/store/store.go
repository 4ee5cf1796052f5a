package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/internal/aggregate"
	"github.com/Alturino/storefront/cart/internal/metrics"
	"github.com/Alturino/storefront/cart/internal/persistence"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

// CartState is the cart operation set exposed to callers.
type CartState interface {
	Add(c context.Context, product productRes.Product, customization aggregate.Customization) aggregate.LineItem
	RemoveOne(c context.Context, productID string, customization aggregate.Customization) (int, bool)
	DeleteLine(c context.Context, productID string, customization aggregate.Customization) bool
	Reset(c context.Context)
	QuantityForLineItem(productID string, customization aggregate.Customization) int
	TotalQuantityForProduct(productID string) int
	GroupedItems() []aggregate.LineItem
	Total() decimal.Decimal
	SubTotal() decimal.Decimal
}

// FavoriteState is the favorite set operation set exposed to callers.
type FavoriteState interface {
	Toggle(c context.Context, product productRes.Product) bool
	RemoveFavorite(c context.Context, productID string) bool
	ResetFavorites(c context.Context)
	IsFavorite(productID string) bool
	FavoriteProducts() []productRes.Product
}

var (
	_ CartState     = (*Store)(nil)
	_ FavoriteState = (*Store)(nil)
)

// Store owns the cart and favorites of one session. Every mutation holds mu until the snapshot write
// returns, so writes for a session reach storage in mutation order.
type Store struct {
	mu         sync.Mutex
	checkoutMu sync.Mutex
	sessionID  uuid.UUID
	cart       *aggregate.Cart
	favorites  *aggregate.Favorites
	persister  persistence.Persister
	now        func() time.Time
	lastSeen   atomic.Int64
}

// Open rehydrates the session from storage. Missing, unreadable or corrupted snapshots all yield an
// empty store.
func Open(c context.Context, sessionID uuid.UUID, persister persistence.Persister) *Store {
	c, span := otel.Tracer.Start(c, "Store Open")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Open").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	s := &Store{
		sessionID: sessionID,
		cart:      aggregate.NewCart(),
		favorites: aggregate.NewFavorites(),
		persister: persister,
		now:       time.Now,
	}
	s.touch()

	logger = logger.With().Str(log.KeyProcess, "loading snapshot").Logger()
	logger.Trace().Msg("loading snapshot")
	c = logger.WithContext(c)
	envelope, err := persister.Load(c, sessionID)
	switch {
	case errors.Is(err, inErrors.ErrSnapshotNotFound):
		logger.Info().Msg("snapshot not found starting with empty store")
		return s
	case err != nil:
		metrics.PersistenceFailures.WithLabelValues("load").Inc()
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg("failed loading snapshot starting with empty store")
		return s
	}

	s.cart = envelope.Cart()
	s.favorites = envelope.Favorites()
	logger.Info().
		Int(log.KeyCartItemsCount, s.cart.Len()).
		Int(log.KeyFavoritesCount, s.favorites.Len()).
		Msg("loaded snapshot")

	return s
}

func (s *Store) SessionID() uuid.UUID {
	return s.sessionID
}

func (s *Store) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

func (s *Store) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// persist writes the full snapshot. Failures are logged and counted; the in-memory state stays the
// source of truth. Callers must hold mu.
func (s *Store) persist(c context.Context, operation string) {
	metrics.Mutations.WithLabelValues(operation).Inc()
	s.touch()

	c, span := otel.Tracer.Start(c, "Store persist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store persist").
		Str(log.KeySessionID, s.sessionID.String()).
		Str(log.KeyProcess, operation).
		Logger()

	envelope := persistence.NewEnvelope(s.cart, s.favorites, s.now())
	c = logger.WithContext(c)
	if err := s.persister.Save(c, s.sessionID, envelope); err != nil {
		metrics.PersistenceFailures.WithLabelValues("save").Inc()
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg("failed saving snapshot keeping in-memory state")
		return
	}
	logger.Trace().Msg("saved snapshot")
}

func (s *Store) Add(
	c context.Context,
	product productRes.Product,
	customization aggregate.Customization,
) aggregate.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cart.Add(product, customization)
	s.persist(c, "add")
	return item
}

func (s *Store) RemoveOne(
	c context.Context,
	productID string,
	customization aggregate.Customization,
) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining, found := s.cart.RemoveOne(productID, customization)
	if found {
		s.persist(c, "remove_one")
	}
	return remaining, found
}

func (s *Store) DeleteLine(
	c context.Context,
	productID string,
	customization aggregate.Customization,
) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := s.cart.DeleteLine(productID, customization)
	if deleted {
		s.persist(c, "delete_line")
	}
	return deleted
}

func (s *Store) Reset(c context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Reset()
	s.persist(c, "reset")
}

func (s *Store) QuantityForLineItem(productID string, customization aggregate.Customization) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.QuantityForLineItem(productID, customization)
}

func (s *Store) TotalQuantityForProduct(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalQuantityForProduct(productID)
}

func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalQuantity()
}

func (s *Store) GroupedItems() []aggregate.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.GroupedItems()
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Store) SubTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SubTotal()
}

// Summary is a consistent read of items and totals taken under one lock.
type Summary struct {
	Items         []aggregate.LineItem
	TotalQuantity int
	SubTotal      decimal.Decimal
	Total         decimal.Decimal
	Savings       decimal.Decimal
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Items:         s.cart.GroupedItems(),
		TotalQuantity: s.cart.TotalQuantity(),
		SubTotal:      s.cart.SubTotal(),
		Total:         s.cart.Total(),
		Savings:       s.cart.Savings(),
	}
}

// Checkout hands a snapshot of the cart to submit. Checkouts of one session run one at a time while other
// mutations stay allowed; once submit succeeds only the submitted quantities are taken off the cart.
func (s *Store) Checkout(c context.Context, submit func(Summary) error) error {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	summary := s.Summary()
	if err := submit(summary); err != nil {
		return err
	}
	s.RemoveSubmitted(c, summary.Items)
	return nil
}

// RemoveSubmitted subtracts each item's quantity from the line item with the same key.
func (s *Store) RemoveSubmitted(c context.Context, items []aggregate.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, item := range items {
		removed += s.cart.RemoveQuantity(item.Key(), item.Quantity)
	}
	if removed > 0 {
		s.persist(c, "remove_submitted")
	}
}

func (s *Store) Toggle(c context.Context, product productRes.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorite := s.favorites.Toggle(product)
	s.persist(c, "toggle_favorite")
	return favorite
}

func (s *Store) RemoveFavorite(c context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.favorites.Remove(productID)
	if removed {
		s.persist(c, "remove_favorite")
	}
	return removed
}

func (s *Store) ResetFavorites(c context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites.Reset()
	s.persist(c, "reset_favorites")
}

func (s *Store) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Contains(productID)
}

func (s *Store) FavoriteProducts() []productRes.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Products()
}
