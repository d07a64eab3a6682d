// ShopifyQ | 2026
// service.go

package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/shopifyq/backend/internal/config"
	"github.com/shopifyq/backend/internal/core"
)

// Service drives the OAuth install flow and proxies catalog reads for
// connected shops.
type Service struct {
	repo   Repository
	client *Client
	states *StateStore
	sealer *core.Sealer
	cfg    config.ShopifyConfig
	logger *slog.Logger
}

func NewService(
	repo Repository,
	client *Client,
	states *StateStore,
	sealer *core.Sealer,
	cfg config.ShopifyConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		client: client,
		states: states,
		sealer: sealer,
		cfg:    cfg,
		logger: logger,
	}
}

// Connect starts the install flow for a shop and returns the grant URL
// the merchant must visit.
func (s *Service) Connect(ctx context.Context, userID, shop string) (*ConnectResponse, error) {
	if !ValidShopDomain(shop) {
		return nil, fmt.Errorf("shop domain %q: %w", shop, core.ErrInvalidInput)
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}
	if err := s.states.Save(ctx, state, userID, shop); err != nil {
		return nil, err
	}

	authorizeURL := BuildAuthorizeURL(shop, s.cfg.APIKey, s.cfg.Scopes, s.cfg.RedirectURI, state)
	return &ConnectResponse{AuthorizeURL: authorizeURL}, nil
}

// CompleteCallback finishes the install flow: verifies the callback
// HMAC, burns the state, exchanges the code, and stores the sealed
// token. Returns the plaintext token so the handler can hand it to the
// browser session, plus the user the flow belongs to.
func (s *Service) CompleteCallback(ctx context.Context, params url.Values) (userID, token string, err error) {
	if !VerifyCallbackHMAC(params, s.cfg.APISecret) {
		return "", "", fmt.Errorf("callback hmac: %w", core.ErrInvalidInput)
	}

	state := params.Get("state")
	code := params.Get("code")
	shop := params.Get("shop")
	if state == "" || code == "" || !ValidShopDomain(shop) {
		return "", "", fmt.Errorf("callback params: %w", core.ErrInvalidInput)
	}

	userID, expectedShop, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", "", fmt.Errorf("callback state: %w", core.ErrInvalidInput)
	}
	if expectedShop != shop {
		return "", "", fmt.Errorf("callback shop mismatch: %w", core.ErrInvalidInput)
	}

	token, scopes, err := s.client.ExchangeToken(ctx, shop, code, s.cfg.APIKey, s.cfg.APISecret)
	if err != nil {
		return "", "", err
	}

	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return "", "", fmt.Errorf("seal shop token: %w", err)
	}

	record := &Shop{
		ID:                uuid.New().String(),
		UserID:            userID,
		Domain:            shop,
		AccessTokenSealed: sealed,
		Scopes:            scopes,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return "", "", err
	}

	s.logger.Info("shop connected",
		slog.String("user_id", userID),
		slog.String("shop", shop),
		slog.String("scopes", scopes))

	return userID, token, nil
}

// Products fetches a catalog page from a connected shop on behalf of
// its owner.
func (s *Service) Products(ctx context.Context, userID, shop string, limit int) (json.RawMessage, error) {
	record, err := s.repo.GetByUserAndDomain(ctx, userID, shop)
	if err != nil {
		return nil, err
	}

	token, err := s.sealer.Open(record.AccessTokenSealed)
	if err != nil {
		return nil, fmt.Errorf("open shop token: %w", err)
	}

	return s.client.ListProducts(ctx, record.Domain, token, limit)
}

func (s *Service) ListShops(ctx context.Context, userID string) ([]ShopInfo, error) {
	shops, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]ShopInfo, len(shops))
	for i, shop := range shops {
		infos[i] = toShopInfo(shop)
	}
	return infos, nil
}

func (s *Service) Disconnect(ctx context.Context, userID, shop string) error {
	if err := s.repo.Delete(ctx, userID, shop); err != nil {
		return err
	}
	s.logger.Info("shop disconnected",
		slog.String("user_id", userID),
		slog.String("shop", shop))
	return nil
}
