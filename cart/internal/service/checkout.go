package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/metrics"
	"github.com/Alturino/storefront/cart/internal/store"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	orderReq "github.com/Alturino/storefront/order/pkg/request"
	orderRes "github.com/Alturino/storefront/order/pkg/response"
)

// CheckoutSummary is the flattened order view of the current cart. It carries no customer data.
func (svc CartService) CheckoutSummary(c context.Context, sessionID uuid.UUID) orderReq.SubmitOrder {
	c, span := otel.Tracer.Start(c, "CartService CheckoutSummary", sessionAttrs(sessionID))
	defer span.End()

	summary := svc.registry.Get(c, sessionID).Summary()
	return orderReq.SubmitOrder{
		SessionID: sessionID,
		Items:     orderItems(summary.Items),
		Totals:    orderTotals(summary),
	}
}

// Checkout submits the cart to the order endpoint. Once the endpoint accepts the order the submitted
// quantities are taken off the cart; items added while the submission was in flight stay.
func (svc CartService) Checkout(
	c context.Context,
	sessionID uuid.UUID,
	param request.Checkout,
) (orderRes.Order, error) {
	c, span := otel.Tracer.Start(c, "CartService Checkout", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking out cart").Logger()
	logger.Trace().Msg("checking out cart")
	c = logger.WithContext(c)
	result := orderRes.Order{}
	err := svc.registry.Get(c, sessionID).Checkout(c, func(summary store.Summary) error {
		order, err := svc.submitOrder(c, sessionID, summary, param)
		result = order
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	logger.Info().Str(log.KeyOrderID, result.ID.String()).Msg("checked out cart")

	return result, nil
}

func (svc CartService) submitOrder(
	c context.Context,
	sessionID uuid.UUID,
	summary store.Summary,
	param request.Checkout,
) (orderRes.Order, error) {
	c, span := otel.Tracer.Start(c, "CartService submitOrder", sessionAttrs(sessionID))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService submitOrder").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "building order").Logger()
	logger.Trace().Msg("building order")
	if len(summary.Items) == 0 {
		err := inErrors.ErrEmptyCart
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	if svc.orderURL == "" {
		err := inErrors.ErrCheckoutUnavailable
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	order := orderReq.SubmitOrder{
		ID:        uuid.New(),
		SessionID: sessionID,
		Items:     orderItems(summary.Items),
		Totals:    orderTotals(summary),
		Customer:  param.Customer,
		Address:   param.Address,
		CreatedAt: svc.now().UTC(),
	}
	logger = logger.With().
		Str(log.KeyOrderID, order.ID.String()).
		Int(log.KeyCartItemsCount, len(order.Items)).
		Stringer(log.KeyCartTotal, order.Totals.Total).
		Logger()
	logger.Info().Msg("built order")

	logger = logger.With().Str(log.KeyProcess, "creating order submission request").Logger()
	logger.Trace().Msg("creating order submission request")
	body, err := json.Marshal(order)
	if err != nil {
		err = fmt.Errorf("failed marshaling order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	req, err := http.NewRequestWithContext(c, http.MethodPost, svc.orderURL, bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed creating order submission request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(constants.HeaderRequestID, requestID)
	}
	logger.Trace().Msg("created order submission request")

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	resp, err := svc.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		metrics.CheckoutSubmissions.WithLabelValues("failed").Inc()
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	defer resp.Body.Close()
	logger = logger.With().Int(log.KeyStatusCode, resp.StatusCode).Logger()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("%w with status code=%d", inErrors.ErrOrderSubmission, resp.StatusCode)
		metrics.CheckoutSubmissions.WithLabelValues("rejected").Inc()
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderRes.Order{}, err
	}
	metrics.CheckoutSubmissions.WithLabelValues("accepted").Inc()
	logger.Info().Msg("submitted order")

	logger = logger.With().Str(log.KeyProcess, "decoding order submission response").Logger()
	result := orderRes.Order{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Warn().Err(err).Msg("failed decoding order submission response using submitted order")
	}
	if result.ID == uuid.Nil {
		result.ID = order.ID
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = order.CreatedAt
	}
	if result.Status == "" {
		result.Status = "submitted"
	}
	logger.Info().Str(log.KeyOrderURL, result.URL).Msg("decoded order submission response")

	return result, nil
}
