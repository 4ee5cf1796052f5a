package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/pkg/request"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

func attachFavoriteController(router *mux.Router, ctrl CartController) {
	favorites := router.PathPrefix("/favorites").Subrouter()
	favorites.HandleFunc("", ctrl.FindFavorites).Methods(http.MethodGet)
	favorites.HandleFunc("", ctrl.ResetFavorites).Methods(http.MethodDelete)
	favorites.HandleFunc("/toggle", ctrl.ToggleFavorite).Methods(http.MethodPost)
	favorites.HandleFunc("/{productId}", ctrl.RemoveFavorite).Methods(http.MethodDelete)
}

func (ctrl CartController) FindFavorites(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindFavorites")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	favorites := ctrl.service.FindFavorites(c, sessionID)
	inHttp.WriteSuccess(c, w, "successfully found favorites", map[string]interface{}{"favorites": favorites})
}

func (ctrl CartController) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ToggleFavorite")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController ToggleFavorite").Logger()
	c = logger.WithContext(c)

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}
	reqBody := request.ToggleFavorite{}
	if !decodeBody(c, w, r, ctrl.validate, &reqBody) {
		return
	}

	favorite, err := ctrl.service.ToggleFavorite(c, sessionID, reqBody.Product)
	if err != nil {
		err = fmt.Errorf("failed toggling favorite with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, statusCodeFor(err), err)
		return
	}

	inHttp.WriteSuccess(c, w, "successfully toggled favorite", map[string]interface{}{
		"favorite":  favorite,
		"favorites": ctrl.service.FindFavorites(c, sessionID),
	})
}

func (ctrl CartController) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveFavorite")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	productID := mux.Vars(r)["productId"]
	favorite := ctrl.service.RemoveFavorite(c, sessionID, productID)
	inHttp.WriteSuccess(c, w, "successfully removed favorite", map[string]interface{}{
		"favorite":  favorite,
		"favorites": ctrl.service.FindFavorites(c, sessionID),
	})
}

func (ctrl CartController) ResetFavorites(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ResetFavorites")
	defer span.End()

	sessionID, ok := sessionFromContext(c, w)
	if !ok {
		return
	}

	ctrl.service.ResetFavorites(c, sessionID)
	inHttp.WriteSuccess(c, w, "successfully reset favorites", map[string]interface{}{
		"favorites": ctrl.service.FindFavorites(c, sessionID),
	})
}
