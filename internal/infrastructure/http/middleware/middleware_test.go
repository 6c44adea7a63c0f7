package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("panic becomes a 500 error envelope", func(t *testing.T) {
		handler := NewRecoveryMiddleware(logger.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Internal server error", body.Message)
		assert.Equal(t, "internal_error", body.Code)
	})

	t.Run("normal requests pass through untouched", func(t *testing.T) {
		handler := NewRecoveryMiddleware(logger.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	handler := NewLoggingMiddleware(logger.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}
