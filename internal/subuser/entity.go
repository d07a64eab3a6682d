// ShopifyQ | 2026
// entity.go

package subuser

import (
	"time"
)

// SubUser is a team member account owned by an admin user. Sub-users
// share the owner's plan; their own role only scopes what routes they
// may reach.
type SubUser struct {
	ID           string    `db:"id"`
	OwnerID      string    `db:"owner_id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
