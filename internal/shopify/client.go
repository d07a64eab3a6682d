// ShopifyQ | 2026
// client.go

package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/doyensec/safeurl"

	"github.com/shopifyq/backend/internal/core"
)

const defaultAPIVersion = "2025-07"

// Client talks to Shopify admin APIs. Shop hostnames are merchant
// supplied, so outbound requests go through an SSRF-guarded client
// that refuses private and link-local destinations.
type Client struct {
	http       *http.Client
	apiVersion string
}

// NewClient builds a guarded client. Pass a non-nil httpClient to
// bypass the guard (tests against local servers).
func NewClient(apiVersion string, timeout time.Duration, httpClient *http.Client) *Client {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	if httpClient == nil {
		cfg := safeurl.GetConfigBuilder().
			SetTimeout(timeout).
			SetAllowedSchemes("https").
			SetAllowedPorts(443).
			Build()
		httpClient = safeurl.Client(cfg).Client
	}
	return &Client{http: httpClient, apiVersion: apiVersion}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeToken swaps the callback authorization code for a permanent
// admin API token.
func (c *Client) ExchangeToken(ctx context.Context, shop, code, apiKey, apiSecret string) (token, scope string, err error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     apiKey,
		"client_secret": apiSecret,
		"code":          code,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal token request: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: token exchange: %w", core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: token exchange status %d", core.ErrUpstream, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", "", fmt.Errorf("%w: decode token response: %w", core.ErrUpstream, err)
	}
	if tr.AccessToken == "" {
		return "", "", fmt.Errorf("%w: empty access token", core.ErrUpstream)
	}
	return tr.AccessToken, tr.Scope, nil
}

// ListProducts fetches a page of the shop catalog and returns the raw
// Shopify payload unchanged for the caller to forward.
func (c *Client) ListProducts(ctx context.Context, shop, accessToken string, limit int) (json.RawMessage, error) {
	if limit <= 0 || limit > 250 {
		limit = 50
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/products.json?%s", shop, c.apiVersion, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("products request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read products: %w", core.ErrUpstream, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return payload, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: shop token rejected", core.ErrUpstream)
	default:
		return nil, fmt.Errorf("%w: list products status %d", core.ErrUpstream, resp.StatusCode)
	}
}
