// ShopifyQ | 2026
// entity.go

package shopify

import (
	"time"
)

// Shop is a connected store. The admin API token is sealed with
// AES-GCM before it reaches the database.
type Shop struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	Domain            string    `db:"domain"`
	AccessTokenSealed string    `db:"access_token_sealed"`
	Scopes            string    `db:"scopes"`
	InstalledAt       time.Time `db:"installed_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
