package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

// Session resolves the browser session from the session header or cookie. A missing or invalid token
// starts a new session whose token is returned in both places. The cookie is marked Secure when
// cfg.SecureCookie is set.
func Session(issuer *session.Issuer, cfg config.Session) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Session")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Session").Logger()

			token := r.Header.Get(constants.HeaderSessionToken)
			if token == "" {
				if cookie, err := r.Cookie(cfg.CookieName); err == nil {
					token = cookie.Value
				}
			}

			sessionID := uuid.Nil
			if token != "" {
				c = logger.WithContext(c)
				id, err := issuer.Verify(c, token)
				if err != nil {
					logger.Info().Err(err).Msg("discarding invalid session token")
				} else {
					sessionID = id
				}
			}

			if sessionID == uuid.Nil {
				logger = logger.With().Str(log.KeyProcess, "issuing session").Logger()
				logger.Info().Msg("issuing session")
				sessionID = uuid.New()
				c = logger.WithContext(c)
				signed, err := issuer.Issue(c, sessionID)
				if err != nil {
					err = fmt.Errorf("failed issuing session with error=%w", err)
					otel.RecordError(err, span)
					logger.Error().Err(err).Msg(err.Error())
					inHttp.WriteFailed(c, w, http.StatusInternalServerError, err)
					return
				}
				w.Header().Set(constants.HeaderSessionToken, signed)
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    signed,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Info().Str(log.KeySessionID, sessionID.String()).Msg("issued session")
			}

			logger = logger.With().Str(log.KeySessionID, sessionID.String()).Logger()
			c = session.AttachSessionID(c, sessionID)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
