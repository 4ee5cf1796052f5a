package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

const (
	querySelectSnapshot = `SELECT payload FROM cart_snapshots WHERE session_id = $1`
	queryUpsertSnapshot = `INSERT INTO cart_snapshots (session_id, version, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id) DO UPDATE
SET version = EXCLUDED.version, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

// PostgresPersister keeps snapshots in the cart_snapshots table, one row per session.
type PostgresPersister struct {
	pool *pgxpool.Pool
}

func NewPostgresPersister(pool *pgxpool.Pool) *PostgresPersister {
	return &PostgresPersister{pool: pool}
}

func (p *PostgresPersister) Load(c context.Context, sessionID uuid.UUID) (Envelope, error) {
	c, span := otel.Tracer.Start(c, "PostgresPersister Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresPersister Load").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding snapshot in database").Logger()
	logger.Trace().Msg("finding snapshot in database")
	var payload []byte
	err := p.pool.QueryRow(c, querySelectSnapshot, sessionID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Trace().Msg("snapshot not found in database")
		return Envelope{}, inErrors.ErrSnapshotNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding snapshot in database with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Envelope{}, err
	}
	logger.Trace().Msg("found snapshot in database")

	logger = logger.With().Str(log.KeyProcess, "decoding snapshot").Logger()
	envelope, err := Decode(payload)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Envelope{}, err
	}
	logger.Trace().Int(log.KeySnapshotVersion, envelope.Version).Msg("decoded snapshot")

	return envelope, nil
}

func (p *PostgresPersister) Save(c context.Context, sessionID uuid.UUID, envelope Envelope) error {
	c, span := otel.Tracer.Start(c, "PostgresPersister Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresPersister Save").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "encoding snapshot").Logger()
	payload, err := Encode(envelope)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "upserting snapshot to database").Logger()
	logger.Trace().Msg("upserting snapshot to database")
	_, err = p.pool.Exec(
		c,
		queryUpsertSnapshot,
		sessionID,
		envelope.Version,
		payload,
		envelope.SavedAt,
	)
	if err != nil {
		err = fmt.Errorf("failed upserting snapshot to database with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("upserted snapshot to database")

	return nil
}
