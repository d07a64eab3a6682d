// ShopifyQ | 2026
// entity.go

package esg

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

type Request struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ProductID     string    `db:"product_id"`
	Title         string    `db:"title"`
	Vendor        string    `db:"vendor"`
	OriginCountry string    `db:"origin_country"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type Score struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ProductID     string    `db:"product_id"`
	Environmental float64   `db:"environmental"`
	Social        float64   `db:"social"`
	Governance    float64   `db:"governance"`
	Overall       float64   `db:"overall"`
	ScoredAt      time.Time `db:"scored_at"`
}
