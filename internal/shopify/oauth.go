// ShopifyQ | 2026
// oauth.go

package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopifyq/backend/internal/core"
)

const (
	stateKeyPrefix = "shopify:oauth:state:"
	stateTTL       = 10 * time.Minute
)

// ValidShopDomain accepts only *.myshopify.com hostnames. The value
// comes straight from the merchant, so anything that could smuggle a
// path or a different host is rejected.
func ValidShopDomain(shop string) bool {
	if len(shop) < len("a.myshopify.com") {
		return false
	}
	if !strings.HasSuffix(shop, ".myshopify.com") {
		return false
	}
	if strings.ContainsAny(shop, "/ ?#@") {
		return false
	}
	return true
}

// VerifyCallbackHMAC checks the hmac parameter Shopify appends to the
// OAuth callback: hex HMAC-SHA256 over the remaining query parameters
// sorted by key and joined as k=v&k=v.
func VerifyCallbackHMAC(params url.Values, secret string) bool {
	provided := params.Get("hmac")
	if provided == "" {
		return false
	}

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
	message := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(provided)))
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BuildAuthorizeURL returns the merchant-facing grant URL for a shop.
func BuildAuthorizeURL(shop, apiKey, scopes, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", apiKey)
	q.Set("scope", scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shop, q.Encode())
}

// StateStore holds pending OAuth states in Redis so the callback can
// be tied back to the user who started the flow.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Save(ctx context.Context, state, userID, shop string) error {
	value := userID + "|" + shop
	if err := s.client.Set(ctx, stateKeyPrefix+state, value, stateTTL).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume fetches and deletes a state in one round trip. A second
// consume of the same state fails, so callbacks are single-use.
func (s *StateStore) Consume(ctx context.Context, state string) (userID, shop string, err error) {
	value, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		if err == redis.Nil {
			return "", "", fmt.Errorf("oauth state: %w", core.ErrNotFound)
		}
		return "", "", fmt.Errorf("consume oauth state: %w", err)
	}

	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("oauth state: %w", core.ErrInvalidInput)
	}
	return parts[0], parts[1], nil
}
