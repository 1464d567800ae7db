package tiendanube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/username/lucroclaro/backend/src/logger"
	"golang.org/x/time/rate"
)

// The API allows 2 requests per second per store; bursts above that get 429s.
const requestsPerSecond = 2

var decoder = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds what the client needs to talk to one store.
type Config struct {
	BaseURL     string // e.g. https://api.tiendanube.com/v1
	StoreID     string
	AccessToken string
	UserAgent   string // the API rejects requests without one
	Timeout     time.Duration
}

// Client is a rate-limited Tienda Nube API client. Construct one per store
// and pass it by reference; it owns its limiter and HTTP client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config
}

// APIError is a non-2xx response from the marketplace.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tiendanube API returned status %d: %s", e.StatusCode, e.Body)
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		cfg:        cfg,
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s%s", c.cfg.BaseURL, c.cfg.StoreID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authentication", "bearer "+c.cfg.AccessToken)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// FetchOrdersPage returns one page of raw order payloads. The payloads stay
// undecoded beyond the array level; validation owns the per-order parsing.
// A 404 means the page is past the end and yields an empty slice.
func (c *Client) FetchOrdersPage(ctx context.Context, page, perPage int) ([]json.RawMessage, error) {
	path := fmt.Sprintf("/orders?page=%d&per_page=%d", page, perPage)
	body, err := c.get(ctx, path)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var orders []json.RawMessage
	if err := decoder.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("decoding orders page %d: %w", page, err)
	}
	return orders, nil
}

// FetchAllOrders pages through the store's orders until a short page, an
// empty page, or the page cap.
func (c *Client) FetchAllOrders(ctx context.Context, perPage, maxPages int) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for page := 1; ; page++ {
		if page > maxPages {
			if logger.L != nil {
				logger.L.Warn("Reached maximum page limit while fetching orders", "maxPages", maxPages)
			}
			break
		}

		orders, err := c.FetchOrdersPage(ctx, page, perPage)
		if err != nil {
			return nil, fmt.Errorf("fetching orders page %d: %w", page, err)
		}
		all = append(all, orders...)

		if len(orders) < perPage {
			break
		}
	}
	return all, nil
}

// FetchShippingCost reads the real carrier cost of an order from the
// fulfillment sub-resource (shipping.merchant_cost on the first fulfillment
// order). Returns nil when the order has no fulfillment data; orders shipped
// with manual methods usually have none.
func (c *Client) FetchShippingCost(ctx context.Context, orderID int64) (*float64, error) {
	path := "/orders/" + strconv.FormatInt(orderID, 10) + "/fulfillment-orders"
	body, err := c.get(ctx, path)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var fulfillments []struct {
		Shipping struct {
			MerchantCost struct {
				Value json.Number `json:"value"`
			} `json:"merchant_cost"`
		} `json:"shipping"`
	}
	if err := decoder.Unmarshal(body, &fulfillments); err != nil {
		return nil, fmt.Errorf("decoding fulfillment orders for order %d: %w", orderID, err)
	}
	if len(fulfillments) == 0 {
		return nil, nil
	}

	raw := fulfillments[0].Shipping.MerchantCost.Value
	if raw == "" {
		return nil, nil
	}
	cost, err := raw.Float64()
	if err != nil {
		return nil, nil
	}
	return &cost, nil
}
