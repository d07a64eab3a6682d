// ShopifyQ | 2026
// client_test.go

package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopifyq/backend/internal/core"
)

// rewriteTransport sends every request to the test server regardless
// of the shop hostname the client computed.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	target, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}

	httpClient := &http.Client{
		Transport: &rewriteTransport{target: target},
		Timeout:   5 * time.Second,
	}
	return NewClient("2025-07", 5*time.Second, httpClient)
}

func TestExchangeToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/oauth/access_token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode token request: %v", err)
		}
		if body["client_id"] != "key" || body["client_secret"] != "secret" || body["code"] != "code123" {
			t.Errorf("unexpected token request body: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "shpat_token",
			"scope":        "read_products",
		})
	})

	token, scope, err := client.ExchangeToken(context.Background(), "example.myshopify.com", "code123", "key", "secret")
	if err != nil {
		t.Fatalf("ExchangeToken: %v", err)
	}
	if token != "shpat_token" {
		t.Errorf("token = %q, want shpat_token", token)
	}
	if scope != "read_products" {
		t.Errorf("scope = %q, want read_products", scope)
	}
}

func TestExchangeTokenUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := client.ExchangeToken(context.Background(), "example.myshopify.com", "bad", "key", "secret")
	if !errors.Is(err, core.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestExchangeTokenEmptyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"","scope":""}`))
	})

	_, _, err := client.ExchangeToken(context.Background(), "example.myshopify.com", "code", "key", "secret")
	if !errors.Is(err, core.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestListProducts(t *testing.T) {
	const payload = `{"products":[{"id":1,"title":"Widget"}]}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/admin/api/2025-07/products.json") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_token" {
			t.Errorf("access token header = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "25" {
			t.Errorf("limit = %q, want 25", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})

	got, err := client.ListProducts(context.Background(), "example.myshopify.com", "shpat_token", 25)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if string(got) != payload {
		t.Errorf("payload = %s, want %s", got, payload)
	}
}

func TestListProductsDefaultLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		w.Write([]byte(`{"products":[]}`))
	})

	if _, err := client.ListProducts(context.Background(), "example.myshopify.com", "tok", 0); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
}

func TestListProductsRejectedToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListProducts(context.Background(), "example.myshopify.com", "stale", 10)
	if !errors.Is(err, core.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}
