// ShopifyQ | 2026
// client.go

package dutify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopifyq/backend/internal/config"
	"github.com/shopifyq/backend/internal/core"
)

// Client wraps the Dutify trade-compliance API: HS code classification
// and landed cost calculation.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg config.DutifyConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type ClassifyRequest struct {
	Description   string `json:"description"`
	OriginCountry string `json:"origin_country"`
}

type Classification struct {
	HSCode      string  `json:"hs_code"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

type LandedCostItem struct {
	HSCode    string  `json:"hs_code"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type LandedCostRequest struct {
	Items       []LandedCostItem `json:"items"`
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	Incoterm    string           `json:"incoterm"`
	Currency    string           `json:"currency"`
}

type LandedCost struct {
	Duties   float64 `json:"duties"`
	Taxes    float64 `json:"taxes"`
	Fees     float64 `json:"fees"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// ClassifyProduct resolves a product description to an HS code.
func (c *Client) ClassifyProduct(ctx context.Context, req ClassifyRequest) (*Classification, error) {
	var out Classification
	if err := c.post(ctx, "/v1/classify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateLandedCost estimates duties, taxes, and fees for a shipment.
func (c *Client) CalculateLandedCost(ctx context.Context, req LandedCostRequest) (*LandedCost, error) {
	var out LandedCost
	if err := c.post(ctx, "/v1/landed-cost", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal dutify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dutify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: dutify %s: %w", core.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Full upstream body goes to the log only; clients get a
		// generic upstream error.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("dutify request failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(detail)))
		return fmt.Errorf("%w: dutify %s status %d", core.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode dutify response: %w", core.ErrUpstream, err)
	}
	return nil
}
