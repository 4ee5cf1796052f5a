package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/cart/internal/aggregate"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

type CartService struct {
	registry *store.Registry
	client   *http.Client
	orderURL string
	now      func() time.Time
}

func NewCartService(registry *store.Registry, cfg config.Order) CartService {
	return CartService{
		registry: registry,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		orderURL: cfg.SubmissionURL,
		now:      time.Now,
	}
}

func sessionAttrs(sessionID uuid.UUID) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String(log.KeySessionID, sessionID.String()))
}

func validateCustomization(customization map[string]any) error {
	if len(customization) == 0 {
		return nil
	}
	if _, err := json.Marshal(customization); err != nil {
		return fmt.Errorf("%w: %w", inErrors.ErrInvalidCustomization, err)
	}
	return nil
}

func (svc CartService) FindCart(c context.Context, sessionID uuid.UUID) response.Cart {
	c, span := otel.Tracer.Start(c, "CartService FindCart", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	c = logger.WithContext(c)
	summary := svc.registry.Get(c, sessionID).Summary()
	logger.Trace().
		Int(log.KeyCartItemsCount, len(summary.Items)).
		Stringer(log.KeyCartTotal, summary.Total).
		Stringer(log.KeyCartSubTotal, summary.SubTotal).
		Msg("found cart")

	return cartResponse(summary)
}

func (svc CartService) AddItem(
	c context.Context,
	sessionID uuid.UUID,
	param request.AddItem,
) (response.LineItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, param.Product.ID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating item").Logger()
	if param.Product.ID == "" {
		err := inErrors.ErrEmptyProductID
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.LineItem{}, err
	}
	if err := validateCustomization(param.Customization); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.LineItem{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "adding item to cart").Logger()
	logger.Trace().Msg("adding item to cart")
	c = logger.WithContext(c)
	item := svc.registry.Get(c, sessionID).Add(c, param.Product, param.Customization)
	logger.Info().
		Str(log.KeyFingerprint, item.Key().Fingerprint).
		Int(log.KeyQuantity, item.Quantity).
		Msg("added item to cart")

	return lineItemResponse(item), nil
}

func (svc CartService) RemoveOne(
	c context.Context,
	sessionID uuid.UUID,
	param request.LineItem,
) response.RemoveOne {
	c, span := otel.Tracer.Start(c, "CartService RemoveOne", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveOne").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, param.ProductID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "removing one unit from cart").Logger()
	logger.Trace().Msg("removing one unit from cart")
	c = logger.WithContext(c)
	remaining, found := svc.registry.Get(c, sessionID).
		RemoveOne(c, param.ProductID, aggregate.Customization(param.Customization))
	if !found {
		logger.Debug().Msg("line item not found")
	} else {
		logger.Info().Int(log.KeyQuantity, remaining).Msg("removed one unit from cart")
	}

	return response.RemoveOne{ProductID: param.ProductID, Removed: found, Remaining: remaining}
}

func (svc CartService) DeleteLine(
	c context.Context,
	sessionID uuid.UUID,
	param request.LineItem,
) response.DeleteLine {
	c, span := otel.Tracer.Start(c, "CartService DeleteLine", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService DeleteLine").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProductID, param.ProductID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting line item").Logger()
	logger.Trace().Msg("deleting line item")
	c = logger.WithContext(c)
	deleted := svc.registry.Get(c, sessionID).
		DeleteLine(c, param.ProductID, aggregate.Customization(param.Customization))
	logger.Info().Bool("deleted", deleted).Msg("deleted line item")

	return response.DeleteLine{ProductID: param.ProductID, Deleted: deleted}
}

func (svc CartService) ResetCart(c context.Context, sessionID uuid.UUID) {
	c, span := otel.Tracer.Start(c, "CartService ResetCart", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ResetCart").
		Str(log.KeySessionID, sessionID.String()).
		Str(log.KeyProcess, "resetting cart").
		Logger()

	logger.Trace().Msg("resetting cart")
	c = logger.WithContext(c)
	svc.registry.Get(c, sessionID).Reset(c)
	logger.Info().Msg("reset cart")
}

func (svc CartService) QuantityForLineItem(
	c context.Context,
	sessionID uuid.UUID,
	param request.LineItem,
) response.Quantity {
	c, span := otel.Tracer.Start(c, "CartService QuantityForLineItem", sessionAttrs(sessionID))
	defer span.End()

	quantity := svc.registry.Get(c, sessionID).
		QuantityForLineItem(param.ProductID, aggregate.Customization(param.Customization))
	return response.Quantity{
		ProductID:     param.ProductID,
		Customization: param.Customization,
		Quantity:      quantity,
	}
}

func (svc CartService) TotalQuantityForProduct(
	c context.Context,
	sessionID uuid.UUID,
	productID string,
) response.Quantity {
	c, span := otel.Tracer.Start(c, "CartService TotalQuantityForProduct", sessionAttrs(sessionID))
	defer span.End()

	quantity := svc.registry.Get(c, sessionID).TotalQuantityForProduct(productID)
	return response.Quantity{ProductID: productID, Quantity: quantity}
}
