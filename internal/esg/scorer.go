// ShopifyQ | 2026
// scorer.go

package esg

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

// Scorer rates a product's ESG risk. Satisfied by *ScorerClient.
type Scorer interface {
	Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error)
}

type ScoreRequest struct {
	Title         string `json:"title"`
	Vendor        string `json:"vendor"`
	OriginCountry string `json:"origin_country"`
}

type ScoreResult struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Overall       float64 `json:"overall"`
}

// ScorerClient calls the external ESG scoring API.
type ScorerClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func NewScorerClient(cfg config.ESGConfig, logger *slog.Logger) *ScorerClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ScorerClient{
		baseURL: strings.TrimRight(cfg.ScorerURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *ScorerClient) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: esg scorer: %w", core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("esg scorer failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(detail)))
		return nil, fmt.Errorf("%w: esg scorer status %d", core.ErrUpstream, resp.StatusCode)
	}

	var result ScoreResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode score response: %w", core.ErrUpstream, err)
	}
	return &result, nil
}

var _ Scorer = (*ScorerClient)(nil)
