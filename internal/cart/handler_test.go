package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/verdant-shop/verdant/internal/app"
	"github.com/verdant-shop/verdant/internal/cart"
)

func newTestHandler(t *testing.T) (chi.Router, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := cart.NewHandler(app.NewLogger(nil), cart.NewRedisSnapshots(client, time.Hour), false)
	r := chi.NewRouter()
	r.Route("/cart", handler.MountRoutes)
	return r, mr
}

func TestHandlerMintsCartCookie(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, cart.CartCookie, cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
}

func TestHandlerAddAndReadBack(t *testing.T) {
	router, _ := newTestHandler(t)

	body := `{"productId":"p1","selectedSize":"M","price":100}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items  cart.Cart   `json:"items"`
		Totals cart.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, 1, resp.Items[0].Quantity)
	require.Equal(t, cart.Totals{Items: 1, Price: 100}, resp.Totals)

	cookie := rec.Result().Cookies()[0]

	// The snapshot write is fire-and-forget; the next request sees it once
	// the background save lands.
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(cookie)
		router.ServeHTTP(rec, req)
		var resp struct {
			Items cart.Cart `json:"items"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			return false
		}
		return len(resp.Items) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandlerRejectsInvalidQuantity(t *testing.T) {
	router, _ := newTestHandler(t)

	body := `{"productId":"p1","quantity":0}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cart/items/quantity", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerClear(t *testing.T) {
	router, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items cart.Cart `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Items)
}
