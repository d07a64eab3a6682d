// ShopifyQ | 2026
// client_test.go

package dutify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopifyq/backend/internal/config"
	"github.com/shopifyq/backend/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewClient(config.DutifyConfig{
		BaseURL: ts.URL,
		APIKey:  "dut_test_key",
		Timeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassifyProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/classify" {
			t.Errorf("path = %s, want /v1/classify", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer dut_test_key" {
			t.Errorf("authorization = %q", got)
		}

		var req ClassifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Description != "cotton t-shirt" || req.OriginCountry != "PT" {
			t.Errorf("unexpected request: %+v", req)
		}

		json.NewEncoder(w).Encode(Classification{
			HSCode:      "6109.10",
			Description: "T-shirts, of cotton",
			Confidence:  0.93,
		})
	})

	got, err := client.ClassifyProduct(context.Background(), ClassifyRequest{
		Description:   "cotton t-shirt",
		OriginCountry: "PT",
	})
	if err != nil {
		t.Fatalf("ClassifyProduct: %v", err)
	}
	if got.HSCode != "6109.10" {
		t.Errorf("hs code = %q, want 6109.10", got.HSCode)
	}
	if got.Confidence != 0.93 {
		t.Errorf("confidence = %v, want 0.93", got.Confidence)
	}
}

func TestCalculateLandedCost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/landed-cost" {
			t.Errorf("path = %s, want /v1/landed-cost", r.URL.Path)
		}
		json.NewEncoder(w).Encode(LandedCost{
			Duties:   42.50,
			Taxes:    96.00,
			Fees:     5.00,
			Total:    143.50,
			Currency: "EUR",
		})
	})

	got, err := client.CalculateLandedCost(context.Background(), LandedCostRequest{
		Items:       []LandedCostItem{{HSCode: "6109.10", Quantity: 100, UnitPrice: 4.80}},
		Origin:      "PT",
		Destination: "US",
		Incoterm:    "DDP",
		Currency:    "EUR",
	})
	if err != nil {
		t.Fatalf("CalculateLandedCost: %v", err)
	}
	if got.Total != 143.50 || got.Currency != "EUR" {
		t.Errorf("unexpected landed cost: %+v", got)
	}
}

func TestUpstreamErrorDoesNotLeakBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"internal detail with key sk_live_xyz"}`))
	})

	_, err := client.ClassifyProduct(context.Background(), ClassifyRequest{Description: "x"})
	if !errors.Is(err, core.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
	if msg := err.Error(); strings.Contains(msg, "sk_live_xyz") || strings.Contains(msg, "internal detail") {
		t.Errorf("upstream body leaked into error: %q", msg)
	}
}
