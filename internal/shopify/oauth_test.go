// ShopifyQ | 2026
// oauth_test.go

package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"
)

func TestValidShopDomain(t *testing.T) {
	tests := []struct {
		name string
		shop string
		want bool
	}{
		{"plain store", "example.myshopify.com", true},
		{"hyphenated store", "my-test-store.myshopify.com", true},
		{"wrong suffix", "example.shopify.com", false},
		{"bare suffix", ".myshopify.com", false},
		{"empty", "", false},
		{"path injection", "evil.com/x.myshopify.com", false},
		{"space", "evil .myshopify.com", false},
		{"query injection", "shop.myshopify.com?x=1", false},
		{"fragment", "shop.myshopify.com#frag", false},
		{"userinfo", "user@shop.myshopify.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidShopDomain(tt.shop); got != tt.want {
				t.Errorf("ValidShopDomain(%q) = %v, want %v", tt.shop, got, tt.want)
			}
		})
	}
}

func signParams(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCallbackHMAC(t *testing.T) {
	const secret = "shpss_test_secret"

	base := url.Values{}
	base.Set("code", "auth_code_123")
	base.Set("shop", "example.myshopify.com")
	base.Set("state", "state_abc")
	base.Set("timestamp", "1756684800")

	t.Run("valid signature", func(t *testing.T) {
		params := cloneValues(base)
		params.Set("hmac", signParams(params, secret))

		if !VerifyCallbackHMAC(params, secret) {
			t.Error("expected valid signature to verify")
		}
	})

	t.Run("uppercase hex accepted", func(t *testing.T) {
		params := cloneValues(base)
		params.Set("hmac", strings.ToUpper(signParams(params, secret)))

		if !VerifyCallbackHMAC(params, secret) {
			t.Error("expected uppercase hex signature to verify")
		}
	})

	t.Run("missing hmac", func(t *testing.T) {
		params := cloneValues(base)

		if VerifyCallbackHMAC(params, secret) {
			t.Error("expected missing hmac to fail")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		params := cloneValues(base)
		params.Set("hmac", signParams(params, "wrong_secret"))

		if VerifyCallbackHMAC(params, secret) {
			t.Error("expected signature from wrong secret to fail")
		}
	})

	t.Run("tampered parameter", func(t *testing.T) {
		params := cloneValues(base)
		params.Set("hmac", signParams(params, secret))
		params.Set("shop", "attacker.myshopify.com")

		if VerifyCallbackHMAC(params, secret) {
			t.Error("expected tampered params to fail")
		}
	})

	t.Run("signature parameter excluded", func(t *testing.T) {
		params := cloneValues(base)
		params.Set("hmac", signParams(params, secret))
		params.Set("signature", "legacy_value")

		if !VerifyCallbackHMAC(params, secret) {
			t.Error("expected legacy signature param to be ignored")
		}
	})
}

func cloneValues(src url.Values) url.Values {
	dst := url.Values{}
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
	return dst
}

func TestBuildAuthorizeURL(t *testing.T) {
	got := BuildAuthorizeURL(
		"example.myshopify.com",
		"api_key_1",
		"read_products,read_orders",
		"https://api.example.com/v1/shopify/callback",
		"state_xyz",
	)

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("authorize url does not parse: %v", err)
	}
	if parsed.Host != "example.myshopify.com" {
		t.Errorf("host = %q, want example.myshopify.com", parsed.Host)
	}
	if parsed.Path != "/admin/oauth/authorize" {
		t.Errorf("path = %q, want /admin/oauth/authorize", parsed.Path)
	}

	q := parsed.Query()
	if q.Get("client_id") != "api_key_1" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("scope") != "read_products,read_orders" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
	if q.Get("state") != "state_xyz" {
		t.Errorf("state = %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "https://api.example.com/v1/shopify/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
}

func TestRandomStateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		state, err := randomState()
		if err != nil {
			t.Fatalf("randomState: %v", err)
		}
		if len(state) < 30 {
			t.Fatalf("state too short: %q", state)
		}
		if seen[state] {
			t.Fatalf("duplicate state: %q", state)
		}
		seen[state] = true
	}
}
