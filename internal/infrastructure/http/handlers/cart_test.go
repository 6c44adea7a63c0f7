package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawa-shop/storefront-service/internal/application/commands"
	"github.com/sawa-shop/storefront-service/internal/infrastructure/persistence/memory"
	"github.com/sawa-shop/storefront-service/internal/pkg/logger"
)

func newCartHandlerFixture() (*CartHandler, *commands.CartService) {
	log := logger.NewLogger()
	carts := commands.NewCartService(memory.NewCartStore(), log)
	return NewCartHandler(carts, log), carts
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) CartView {
	t.Helper()
	var view CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("adds and returns the cart view", func(t *testing.T) {
		handler, _ := newCartHandlerFixture()

		body := `{
			"user_id": "u1",
			"variant": {"id": "v1", "name": "Box", "price": {"amount": 1500, "currency": "USD"}},
			"quantity": 2
		}`
		rec := httptest.NewRecorder()
		handler.HandleAddItem(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeCartView(t, rec)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "v1", view.Items[0].Variant.ID)
		assert.Equal(t, 2, view.TotalItems)
		assert.Equal(t, int64(3000), view.Subtotal)
		assert.Equal(t, "USD", view.SubtotalCurrency)
	})

	t.Run("missing user_id fails validation", func(t *testing.T) {
		handler, _ := newCartHandlerFixture()

		body := `{"variant": {"id": "v1"}}`
		rec := httptest.NewRecorder()
		handler.HandleAddItem(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		handler, _ := newCartHandlerFixture()

		rec := httptest.NewRecorder()
		handler.HandleAddItem(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader("{oops")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartHandler_GetCart(t *testing.T) {
	handler, carts := newCartHandlerFixture()
	carts.Add(context.Background(), "u1", testVariant("v1"), 3)

	rec := httptest.NewRecorder()
	handler.HandleGetCart(rec, httptest.NewRequest(http.MethodGet, "/cart?user_id=u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCartView(t, rec)
	assert.Equal(t, 3, view.TotalItems)

	t.Run("unknown user gets an empty cart", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleGetCart(rec, httptest.NewRequest(http.MethodGet, "/cart?user_id=nobody", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, decodeCartView(t, rec).TotalItems)
	})
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	handler, carts := newCartHandlerFixture()
	ctx := context.Background()
	carts.Add(ctx, "u1", testVariant("v1"), 2)

	t.Run("sets the quantity", func(t *testing.T) {
		body := `{"user_id": "u1", "quantity": 5}`
		rec := httptest.NewRecorder()
		handler.HandleUpdateQuantity(rec, httptest.NewRequest(http.MethodPut, "/cart/items/v1", strings.NewReader(body)), "v1")

		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeCartView(t, rec)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 5, view.Items[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		body := `{"user_id": "u1", "quantity": 0}`
		rec := httptest.NewRecorder()
		handler.HandleUpdateQuantity(rec, httptest.NewRequest(http.MethodPut, "/cart/items/v1", strings.NewReader(body)), "v1")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeCartView(t, rec).Items)
	})
}

func TestCartHandler_RemoveItem(t *testing.T) {
	handler, carts := newCartHandlerFixture()
	ctx := context.Background()
	carts.Add(ctx, "u1", testVariant("v1"), 1)
	carts.Add(ctx, "u1", testVariant("v2"), 1)

	rec := httptest.NewRecorder()
	handler.HandleRemoveItem(rec, httptest.NewRequest(http.MethodDelete, "/cart/items/v1?user_id=u1", nil), "v1")

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "v2", view.Items[0].Variant.ID)
}

func TestCartHandler_ClearCart(t *testing.T) {
	handler, carts := newCartHandlerFixture()
	ctx := context.Background()
	carts.Add(ctx, "u1", testVariant("v1"), 4)

	rec := httptest.NewRecorder()
	handler.HandleClearCart(rec, httptest.NewRequest(http.MethodDelete, "/cart?user_id=u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeCartView(t, rec).TotalItems)
}

func TestVariantIDFromPath(t *testing.T) {
	assert.Equal(t, "v1", VariantIDFromPath("/cart/items/v1"))
	assert.Equal(t, "v1", VariantIDFromPath("/cart/items/v1/extra"))
	assert.Equal(t, "", VariantIDFromPath("/cart/items/"))
}
