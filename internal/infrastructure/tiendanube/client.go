package tiendanube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// PageSize is the fixed page size for paged list endpoints.
const PageSize = 50

const (
	defaultBaseURL = "https://api.tiendanube.com/v1"
	defaultAuthURL = "https://www.tiendanube.com/apps/authorize/token"
)

// Client talks to the Tiendanube REST API. A 404 on a paged list endpoint
// means "no more pages" and is returned as an empty slice, not an error;
// every other non-success status becomes a *domain.UpstreamError.
type Client struct {
	baseURL      string
	authURL      string
	userAgent    string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithAuthURL overrides the OAuth token endpoint. Used by tests.
func WithAuthURL(u string) Option {
	return func(c *Client) { c.authURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithMetrics counts every upstream request by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Tiendanube API client.
func NewClient(clientID, clientSecret, userAgent string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		authURL:      defaultAuthURL,
		userAgent:    userAgent,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, url, accessToken string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authentication", "bearer "+accessToken)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) countRequest(outcome string) {
	if c.metrics != nil {
		c.metrics.UpstreamCalls.WithLabelValues(outcome).Inc()
	}
}

// do executes the request and decodes a success response into out. Non-2xx
// statuses are returned as *domain.UpstreamError with the body preserved.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.countRequest("transport_error")
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.countRequest(fmt.Sprintf("http_%d", resp.StatusCode))
		return &domain.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	c.countRequest("success")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchProducts fetches one page of products. An empty slice signals the
// end of pagination.
func (c *Client) FetchProducts(ctx context.Context, shopID int64, accessToken string, page int) ([]Product, error) {
	url := fmt.Sprintf("%s/%d/products?page=%d&per_page=%d", c.baseURL, shopID, page, PageSize)
	req, err := c.newRequest(ctx, http.MethodGet, url, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := c.do(req, &products); err != nil {
		if ue, ok := domain.AsUpstreamError(err); ok && ue.IsNotFound() {
			c.logger.Debug().Int64("shopId", shopID).Int("page", page).Msg("No more products")
			return nil, nil
		}
		return nil, err
	}
	return products, nil
}

// FetchProduct fetches a single product by remote id.
func (c *Client) FetchProduct(ctx context.Context, shopID int64, accessToken string, productID int64) (*Product, error) {
	url := fmt.Sprintf("%s/%d/products/%d", c.baseURL, shopID, productID)
	req, err := c.newRequest(ctx, http.MethodGet, url, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FetchCategories fetches one page of categories. An empty slice signals
// the end of pagination.
func (c *Client) FetchCategories(ctx context.Context, shopID int64, accessToken string, page int) ([]Category, error) {
	url := fmt.Sprintf("%s/%d/categories?page=%d&per_page=%d", c.baseURL, shopID, page, PageSize)
	req, err := c.newRequest(ctx, http.MethodGet, url, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := c.do(req, &categories); err != nil {
		if ue, ok := domain.AsUpstreamError(err); ok && ue.IsNotFound() {
			c.logger.Debug().Int64("shopId", shopID).Int("page", page).Msg("No more categories")
			return nil, nil
		}
		return nil, err
	}
	return categories, nil
}

// FetchCategory fetches a single category by remote id.
func (c *Client) FetchCategory(ctx context.Context, shopID int64, accessToken string, categoryID int64) (*Category, error) {
	url := fmt.Sprintf("%s/%d/categories/%d", c.baseURL, shopID, categoryID)
	req, err := c.newRequest(ctx, http.MethodGet, url, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var category Category
	if err := c.do(req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetStore fetches the shop's own record.
func (c *Client) GetStore(ctx context.Context, shopID int64, accessToken string) (*StoreInfo, error) {
	url := fmt.Sprintf("%s/%d/store", c.baseURL, shopID)
	req, err := c.newRequest(ctx, http.MethodGet, url, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var info StoreInfo
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ExchangeCode exchanges an OAuth authorization code for an access token
// and the shop id it belongs to.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"grant_type":    "authorization_code",
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.authURL, "", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" || token.UserID == 0 {
		return nil, fmt.Errorf("invalid token response from tiendanube")
	}
	return &token, nil
}

// CreateWebhook registers a webhook subscription on the shop.
func (c *Client) CreateWebhook(ctx context.Context, shopID int64, accessToken, topic, address string) (*Webhook, error) {
	payload, err := json.Marshal(map[string]string{
		"event": topic,
		"url":   address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook: %w", err)
	}

	url := fmt.Sprintf("%s/%d/webhooks", c.baseURL, shopID)
	req, err := c.newRequest(ctx, http.MethodPost, url, accessToken, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var wh Webhook
	if err := c.do(req, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

// ListWebhooks lists the shop's webhook subscriptions.
func (c *Client) ListWebhooks(ctx context.Context, shopID int64, accessToken string) ([]Webhook, error) {
	url := fmt.Sprintf("%s/%d/webhooks", c.baseURL, shopID)
	req, err := c.newRequest(ctx, http.MethodGet, url, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var webhooks []Webhook
	if err := c.do(req, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

// DeleteWebhook removes a webhook subscription.
func (c *Client) DeleteWebhook(ctx context.Context, shopID int64, accessToken string, webhookID int64) error {
	url := fmt.Sprintf("%s/%d/webhooks/%d", c.baseURL, shopID, webhookID)
	req, err := c.newRequest(ctx, http.MethodDelete, url, accessToken, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
