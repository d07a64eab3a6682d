// ShopifyQ | 2026
// dto.go

package shopify

import (
	"time"
)

type ConnectResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

type ShopInfo struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	Scopes      string    `json:"scopes"`
	InstalledAt time.Time `json:"installed_at"`
}

type ProductsRequest struct {
	Shop  string `json:"shop" validate:"required,max=255"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

type DisconnectRequest struct {
	Shop string `json:"shop" validate:"required,max=255"`
}

func toShopInfo(s *Shop) ShopInfo {
	return ShopInfo{
		ID:          s.ID,
		Domain:      s.Domain,
		Scopes:      s.Scopes,
		InstalledAt: s.InstalledAt,
	}
}
