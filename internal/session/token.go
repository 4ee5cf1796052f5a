package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

// Issuer signs and verifies the opaque per-browser session identifier.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(c context.Context, sessionID uuid.UUID) (string, error) {
	c, span := otel.Tracer.Start(c, "Issuer Issue")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Issuer Issue").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Trace().Msg("signing token")
	issuedAt := i.now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{constants.AudienceSession},
			Issuer:    constants.AppCartService,
			Subject:   sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Trace().Msg("signed token")

	return signed, nil
}

func (i *Issuer) Verify(c context.Context, token string) (uuid.UUID, error) {
	c, span := otel.Tracer.Start(c, "Issuer Verify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Issuer Verify").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	claims := jwt.RegisteredClaims{}
	jwtToken, err := jwt.ParseWithClaims(token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithAudience(constants.AudienceSession),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.AppCartService),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		otel.RecordError(err, span)
		logger.Debug().Err(err).Msg(err.Error())
		return uuid.Nil, fmt.Errorf("%w: %w", inErrors.ErrTokenInvalid, err)
	}
	if !jwtToken.Valid {
		otel.RecordError(inErrors.ErrTokenInvalid, span)
		logger.Debug().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return uuid.Nil, inErrors.ErrTokenInvalid
	}
	logger.Trace().Msg("parsed claims")

	logger = logger.With().Str(log.KeyProcess, "parsing subject").Logger()
	if claims.Subject == "" {
		otel.RecordError(inErrors.ErrEmptySubject, span)
		logger.Debug().Err(inErrors.ErrEmptySubject).Msg(inErrors.ErrEmptySubject.Error())
		return uuid.Nil, inErrors.ErrEmptySubject
	}
	sessionID, err := uuid.Parse(claims.Subject)
	if err != nil {
		err = fmt.Errorf("failed parsing subject=%s with error=%w", claims.Subject, err)
		otel.RecordError(err, span)
		logger.Debug().Err(err).Msg(err.Error())
		return uuid.Nil, fmt.Errorf("%w: %w", inErrors.ErrTokenInvalid, err)
	}
	logger.Trace().Str(log.KeySessionID, sessionID.String()).Msg("parsed subject as sessionId")

	return sessionID, nil
}
