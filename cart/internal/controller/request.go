package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

const maxBodyBytes = 1 << 20

// decodeBody decodes and validates a JSON body into dst, writing a 400 reply on failure.
func decodeBody(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	validate *validator.Validate,
	dst any,
) bool {
	span := trace.SpanFromContext(c)
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "decoding request body").Logger()

	logger.Trace().Msg("decoding request body")
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return false
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := validate.StructCtx(c, dst); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err)
		return false
	}
	logger.Trace().Msg("validated request body")

	return true
}

func sessionFromContext(c context.Context, w http.ResponseWriter) (uuid.UUID, bool) {
	id, err := session.IDFromContext(c)
	if err != nil {
		otel.RecordError(err, trace.SpanFromContext(c))
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusUnauthorized, err)
		return uuid.Nil, false
	}
	return id, true
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrEmptyProductID),
		errors.Is(err, inErrors.ErrInvalidCustomization),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrCheckoutUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, inErrors.ErrOrderSubmission):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
