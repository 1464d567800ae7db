package tiendanube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:     server.URL,
		StoreID:     "123456",
		AccessToken: "test-token",
		UserAgent:   "LucroClaro Tests (dev@example.com)",
	})
}

func TestClientRequestHeaders(t *testing.T) {
	var gotAuth, gotUserAgent, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authentication")
		gotUserAgent = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		fmt.Fprint(w, `[]`)
	})

	_, err := client.FetchOrdersPage(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, "bearer test-token", gotAuth)
	assert.Equal(t, "LucroClaro Tests (dev@example.com)", gotUserAgent)
	assert.Equal(t, "/123456/orders", gotPath)
}

func TestFetchOrdersPage(t *testing.T) {
	t.Run("decodes raw order array", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "50", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, `[{"id": 1}, {"id": 2}]`)
		})
		orders, err := client.FetchOrdersPage(context.Background(), 2, 50)
		require.NoError(t, err)
		assert.Len(t, orders, 2)
		assert.JSONEq(t, `{"id": 1}`, string(orders[0]))
	})

	t.Run("404 means past the end", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Not Found", http.StatusNotFound)
		})
		orders, err := client.FetchOrdersPage(context.Background(), 99, 50)
		require.NoError(t, err)
		assert.Nil(t, orders)
	})

	t.Run("other errors surface with status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		})
		_, err := client.FetchOrdersPage(context.Background(), 1, 50)
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	})
}

func TestFetchAllOrders(t *testing.T) {
	t.Run("stops on short page", func(t *testing.T) {
		pages := map[string]string{
			"1": `[{"id": 1}, {"id": 2}]`,
			"2": `[{"id": 3}]`,
		}
		var requests int
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprint(w, pages[r.URL.Query().Get("page")])
		})

		orders, err := client.FetchAllOrders(context.Background(), 2, 100)
		require.NoError(t, err)
		assert.Len(t, orders, 3)
		assert.Equal(t, 2, requests)
	})

	t.Run("stops on 404 page", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "1" {
				fmt.Fprint(w, `[{"id": 1}, {"id": 2}]`)
				return
			}
			http.Error(w, "Not Found", http.StatusNotFound)
		})

		orders, err := client.FetchAllOrders(context.Background(), 2, 100)
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("honors the page cap", func(t *testing.T) {
		var requests int
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprint(w, `[{"id": 1}, {"id": 2}]`)
		})

		orders, err := client.FetchAllOrders(context.Background(), 2, 3)
		require.NoError(t, err)
		assert.Len(t, orders, 6)
		assert.Equal(t, 3, requests)
	})
}

func TestFetchShippingCost(t *testing.T) {
	t.Run("reads merchant cost of the first fulfillment", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/123456/orders/42/fulfillment-orders", r.URL.Path)
			fmt.Fprint(w, `[{"shipping": {"merchant_cost": {"value": "150.50", "currency": "ARS"}}}]`)
		})
		cost, err := client.FetchShippingCost(context.Background(), 42)
		require.NoError(t, err)
		require.NotNil(t, cost)
		assert.InDelta(t, 150.5, *cost, 1e-9)
	})

	t.Run("no fulfillments yields nil", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		})
		cost, err := client.FetchShippingCost(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, cost)
	})

	t.Run("404 yields nil", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Not Found", http.StatusNotFound)
		})
		cost, err := client.FetchShippingCost(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, cost)
	})
}
