package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/constants"
)

func TestRecoverPanic(t *testing.T) {
	testCases := []struct {
		name      string
		recovered any
	}{
		{name: "given error panic should reply internal server error", recovered: errors.New("boom")},
		{name: "given string panic should reply internal server error", recovered: "boom"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tc.recovered)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := map[string]any{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "failed", body["status"])
		})
	}
}

func TestLogging(t *testing.T) {
	t.Run("given request id header should echo it", func(t *testing.T) {
		handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.Header.Set(constants.HeaderRequestID, "req-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(constants.HeaderRequestID))
	})

	t.Run("given no request id should generate one", func(t *testing.T) {
		handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

		assert.NotEmpty(t, rec.Header().Get(constants.HeaderRequestID))
	})
}
