package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Alturino/storefront/cart/internal/metrics"
	"github.com/Alturino/storefront/cart/internal/persistence"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

// Registry hands out one Store per session. Concurrent first requests for the same session share a
// single load from storage.
type Registry struct {
	mu          sync.RWMutex
	stores      map[uuid.UUID]*Store
	group       singleflight.Group
	persister   persistence.Persister
	idleTimeout time.Duration
}

// NewRegistry keeps stores in memory until they have been idle for idleTimeout. A zero idleTimeout
// disables eviction.
func NewRegistry(persister persistence.Persister, idleTimeout time.Duration) *Registry {
	return &Registry{
		stores:      make(map[uuid.UUID]*Store),
		persister:   persister,
		idleTimeout: idleTimeout,
	}
}

// lookup touches the store while holding the read lock, so EvictIdle never removes a store between
// lookup and use.
func (r *Registry) lookup(sessionID uuid.UUID) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[sessionID]
	if ok {
		s.touch()
	}
	return s, ok
}

func (r *Registry) Get(c context.Context, sessionID uuid.UUID) *Store {
	if s, ok := r.lookup(sessionID); ok {
		return s
	}

	c, span := otel.Tracer.Start(c, "Registry Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Registry Get").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "opening store").Logger()
	logger.Trace().Msg("opening store")
	c = logger.WithContext(c)
	v, _, _ := r.group.Do(sessionID.String(), func() (any, error) {
		if s, ok := r.lookup(sessionID); ok {
			return s, nil
		}
		s := Open(context.WithoutCancel(c), sessionID, r.persister)

		r.mu.Lock()
		s.touch()
		r.stores[sessionID] = s
		metrics.ActiveSessions.Set(float64(len(r.stores)))
		r.mu.Unlock()
		return s, nil
	})
	logger.Trace().Msg("opened store")

	return v.(*Store)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

// EvictIdle drops stores idle since before now minus the idle timeout. A store that is locked or in the
// middle of a checkout is skipped and retried on the next sweep.
func (r *Registry) EvictIdle(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.stores {
		if now.Sub(s.LastSeen()) < r.idleTimeout {
			continue
		}
		if !s.checkoutMu.TryLock() {
			continue
		}
		if !s.mu.TryLock() {
			s.checkoutMu.Unlock()
			continue
		}
		delete(r.stores, id)
		s.mu.Unlock()
		s.checkoutMu.Unlock()
		evicted++
	}
	metrics.ActiveSessions.Set(float64(len(r.stores)))
	return evicted
}

func (r *Registry) StartEvictor(c context.Context, wg *sync.WaitGroup, interval time.Duration) {
	defer wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Registry StartEvictor").
		Str(log.KeyProcess, "evicting idle stores").
		Str(log.KeyAppName, constants.AppCartService).
		Logger()

	if r.idleTimeout <= 0 || interval <= 0 {
		logger.Info().Msg("eviction disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", interval).Msg("started evictor")
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped evictor")
			return
		case now := <-ticker.C:
			evicted := r.EvictIdle(now)
			if evicted == 0 {
				continue
			}
			logger.Debug().
				Int(log.KeyEvicted, evicted).
				Int("remaining", r.Len()).
				Msg("evicted idle stores")
		}
	}
}
