package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

type RedisPersister struct {
	client     *redis.Client
	storageKey string
	ttl        time.Duration
}

// NewRedisPersister stores each session under "<storageKey>:<sessionID>". A zero ttl keeps snapshots
// forever.
func NewRedisPersister(client *redis.Client, storageKey string, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, storageKey: storageKey, ttl: ttl}
}

func (p *RedisPersister) cacheKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", p.storageKey, sessionID.String())
}

func (p *RedisPersister) Load(c context.Context, sessionID uuid.UUID) (Envelope, error) {
	c, span := otel.Tracer.Start(c, "RedisPersister Load")
	defer span.End()

	cacheKey := p.cacheKey(sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisPersister Load").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding snapshot in cache").Logger()
	logger.Trace().Msg("finding snapshot in cache")
	data, err := p.client.Get(c, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Trace().Msg("snapshot not found in cache")
		return Envelope{}, inErrors.ErrSnapshotNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding snapshot in cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Envelope{}, err
	}
	logger.Trace().Msg("found snapshot in cache")

	logger = logger.With().Str(log.KeyProcess, "decoding snapshot").Logger()
	envelope, err := Decode(data)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Envelope{}, err
	}
	logger.Trace().Int(log.KeySnapshotVersion, envelope.Version).Msg("decoded snapshot")

	return envelope, nil
}

func (p *RedisPersister) Save(c context.Context, sessionID uuid.UUID, envelope Envelope) error {
	c, span := otel.Tracer.Start(c, "RedisPersister Save")
	defer span.End()

	cacheKey := p.cacheKey(sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisPersister Save").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "encoding snapshot").Logger()
	data, err := Encode(envelope)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "inserting snapshot to cache").Logger()
	logger.Trace().Msg("inserting snapshot to cache")
	err = p.client.Set(c, cacheKey, data, p.ttl).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting snapshot to cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("inserted snapshot to cache")

	return nil
}
