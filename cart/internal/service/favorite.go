package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

func (svc CartService) FindFavorites(c context.Context, sessionID uuid.UUID) response.Favorites {
	c, span := otel.Tracer.Start(c, "CartService FindFavorites", sessionAttrs(sessionID))
	defer span.End()

	products := svc.registry.Get(c, sessionID).FavoriteProducts()
	return response.Favorites{Products: products, Count: len(products)}
}

func (svc CartService) ToggleFavorite(
	c context.Context,
	sessionID uuid.UUID,
	product productRes.Product,
) (response.Favorite, error) {
	c, span := otel.Tracer.Start(c, "CartService ToggleFavorite", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ToggleFavorite").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, product.ID).
		Logger()

	if product.ID == "" {
		err := inErrors.ErrEmptyProductID
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Favorite{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "toggling favorite").Logger()
	logger.Trace().Msg("toggling favorite")
	c = logger.WithContext(c)
	favorite := svc.registry.Get(c, sessionID).Toggle(c, product)
	logger.Info().Bool("favorite", favorite).Msg("toggled favorite")

	return response.Favorite{ProductID: product.ID, Favorite: favorite}, nil
}

func (svc CartService) RemoveFavorite(
	c context.Context,
	sessionID uuid.UUID,
	productID string,
) response.Favorite {
	c, span := otel.Tracer.Start(c, "CartService RemoveFavorite", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveFavorite").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, productID).
		Str(log.KeyProcess, "removing favorite").
		Logger()

	logger.Trace().Msg("removing favorite")
	c = logger.WithContext(c)
	removed := svc.registry.Get(c, sessionID).RemoveFavorite(c, productID)
	logger.Info().Bool("removed", removed).Msg("removed favorite")

	return response.Favorite{ProductID: productID, Favorite: false}
}

func (svc CartService) ResetFavorites(c context.Context, sessionID uuid.UUID) {
	c, span := otel.Tracer.Start(c, "CartService ResetFavorites", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ResetFavorites").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProcess, "resetting favorites").
		Logger()

	logger.Trace().Msg("resetting favorites")
	c = logger.WithContext(c)
	svc.registry.Get(c, sessionID).ResetFavorites(c)
	logger.Info().Msg("reset favorites")
}
