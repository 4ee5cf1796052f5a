package controller

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/request"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
)

type CartController struct {
	service  service.CartService
	validate *validator.Validate
}

func AttachCartController(router *mux.Router, svc service.CartService) {
	controller := CartController{
		service:  svc,
		validate: validate.New(),
	}

	carts := router.PathPrefix("/carts").Subrouter()
	carts.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	carts.HandleFunc("", controller.ResetCart).Methods(http.MethodDelete)
	carts.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	carts.HandleFunc("/items/remove-one", controller.RemoveOne).Methods(http.MethodPost)
	carts.HandleFunc("/items/delete", controller.DeleteLine).Methods(http.MethodPost)
	carts.HandleFunc("/items/quantity", controller.QuantityForLineItem).Methods(http.MethodPost)
	carts.HandleFunc("/products/{productId}/quantity", controller.TotalQuantityForProduct).
		Methods(http.MethodGet)
	carts.HandleFunc("/checkout", controller.CheckoutSummary).Methods(http.MethodGet)
	carts.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)

	attachFavoriteController(router, controller)
}

func (ctrl CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	cart := ctrl.service.FindCart(c, sessionID)
	inHttp.WriteSuccess(c, w, "successfully found cart", map[string]interface{}{"cart": cart})
}

func (ctrl CartController) ResetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ResetCart")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	ctrl.service.ResetCart(c, sessionID)
	cart := ctrl.service.FindCart(c, sessionID)
	inHttp.WriteSuccess(c, w, "successfully reset cart", map[string]interface{}{"cart": cart})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController AddItem").Logger()
	c = logger.WithContext(c)

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}
	reqBody := request.AddItem{}
	if !decodeBody(c, w, r, ctrl.validate, &reqBody) {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "adding item").Logger()
	logger.Info().Msg("adding item")
	c = logger.WithContext(c)
	item, err := ctrl.service.AddItem(c, sessionID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCodeFor(err), err)
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteSuccess(c, w, "successfully added item", map[string]interface{}{
		"item": item,
		"cart": ctrl.service.FindCart(c, sessionID),
	})
}

func (ctrl CartController) RemoveOne(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveOne")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController RemoveOne").Logger()
	c = logger.WithContext(c)

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}
	reqBody := request.LineItem{}
	if !decodeBody(c, w, r, ctrl.validate, &reqBody) {
		return
	}

	result := ctrl.service.RemoveOne(c, sessionID, reqBody)
	inHttp.WriteSuccess(c, w, "successfully removed one item", map[string]interface{}{
		"item": result,
		"cart": ctrl.service.FindCart(c, sessionID),
	})
}

func (ctrl CartController) DeleteLine(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController DeleteLine")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController DeleteLine").Logger()
	c = logger.WithContext(c)

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}
	reqBody := request.LineItem{}
	if !decodeBody(c, w, r, ctrl.validate, &reqBody) {
		return
	}

	result := ctrl.service.DeleteLine(c, sessionID, reqBody)
	inHttp.WriteSuccess(c, w, "successfully deleted line item", map[string]interface{}{
		"item": result,
		"cart": ctrl.service.FindCart(c, sessionID),
	})
}

func (ctrl CartController) QuantityForLineItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController QuantityForLineItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController QuantityForLineItem").Logger()
	c = logger.WithContext(c)

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}
	reqBody := request.LineItem{}
	if !decodeBody(c, w, r, ctrl.validate, &reqBody) {
		return
	}

	quantity := ctrl.service.QuantityForLineItem(c, sessionID, reqBody)
	inHttp.WriteSuccess(c, w, "successfully found quantity", map[string]interface{}{"quantity": quantity})
}

func (ctrl CartController) TotalQuantityForProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController TotalQuantityForProduct")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	productID := mux.Vars(r)["productId"]
	quantity := ctrl.service.TotalQuantityForProduct(c, sessionID, productID)
	inHttp.WriteSuccess(c, w, "successfully found quantity", map[string]interface{}{"quantity": quantity})
}

func (ctrl CartController) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CheckoutSummary")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	summary := ctrl.service.CheckoutSummary(c, sessionID)
	inHttp.WriteSuccess(c, w, "successfully built checkout summary", map[string]interface{}{"order": summary})
}

func (ctrl CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController Checkout").Logger()
	c = logger.WithContext(c)

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}
	reqBody := request.Checkout{}
	if !decodeBody(c, w, r, ctrl.validate, &reqBody) {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "checking out cart").Logger()
	logger.Info().Msg("checking out cart")
	c = logger.WithContext(c)
	order, err := ctrl.service.Checkout(c, sessionID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCodeFor(err), err)
		return
	}
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("checked out cart")

	inHttp.WriteSuccess(c, w, "successfully checked out cart", map[string]interface{}{"order": order})
}
