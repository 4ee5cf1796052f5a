package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/session"
)

func TestSession(t *testing.T) {
	issuer := session.NewIssuer("secret", time.Hour)
	var seen uuid.UUID
	handler := Session(issuer, config.Session{CookieName: "session_token", TTL: time.Hour})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := session.IDFromContext(r.Context())
			require.NoError(t, err)
			seen = id
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	t.Run("given no token should issue new session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		token := rec.Header().Get(constants.HeaderSessionToken)
		require.NotEmpty(t, token)
		assert.NotEqual(t, uuid.Nil, seen)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.False(t, cookies[0].Secure)
	})

	t.Run("given valid header token should keep session", func(t *testing.T) {
		id := uuid.New()
		token, err := issuer.Issue(context.Background(), id)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.Header.Set(constants.HeaderSessionToken, token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, id, seen)
		assert.Empty(t, rec.Header().Get(constants.HeaderSessionToken))
	})

	t.Run("given valid cookie token should keep session", func(t *testing.T) {
		id := uuid.New()
		token, err := issuer.Issue(context.Background(), id)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, id, seen)
	})

	t.Run("given invalid token should replace session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.Header.Set(constants.HeaderSessionToken, "garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get(constants.HeaderSessionToken))
		assert.NotEqual(t, uuid.Nil, seen)
	})
}

func TestSessionSecureCookie(t *testing.T) {
	testCases := []struct {
		name   string
		secure bool
	}{
		{name: "given secure cookie enabled should mark cookie secure", secure: true},
		{name: "given secure cookie disabled should not mark cookie secure", secure: false},
	}
	issuer := session.NewIssuer("secret", time.Hour)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Session{CookieName: "session_token", TTL: time.Hour, SecureCookie: tc.secure}
			handler := Session(issuer, cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, tc.secure, cookies[0].Secure)
			assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge)
		})
	}
}
