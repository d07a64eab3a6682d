// ShopifyQ | 2026
// entity.go

package document

import (
	"encoding/json"
	"time"
)

// Record is one generated document. The full document model lives in
// Payload as JSONB; Number is duplicated into its own column for
// lookups.
type Record struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	OrderID   string          `db:"order_id"`
	Number    string          `db:"number"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}

// Invoice is the commercial invoice model a renderer would consume.
type Invoice struct {
	Number      string        `json:"number"`
	OrderID     string        `json:"order_id"`
	IssuedAt    time.Time     `json:"issued_at"`
	Seller      Party         `json:"seller"`
	Buyer       Party         `json:"buyer"`
	Incoterm    string        `json:"incoterm"`
	Currency    string        `json:"currency"`
	Items       []InvoiceLine `json:"items"`
	Subtotal    float64       `json:"subtotal"`
	FreightCost float64       `json:"freight_cost"`
	Total       float64       `json:"total"`
}

type InvoiceLine struct {
	Description string  `json:"description"`
	HSCode      string  `json:"hs_code"`
	Origin      string  `json:"origin"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type Party struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Country    string `json:"country"`
	TaxID      string `json:"tax_id,omitempty"`
	EORINumber string `json:"eori_number,omitempty"`
}

// PackingList carries per-carton weights and piece counts.
type PackingList struct {
	Number         string            `json:"number"`
	OrderID        string            `json:"order_id"`
	IssuedAt       time.Time         `json:"issued_at"`
	Shipper        Party             `json:"shipper"`
	Consignee      Party             `json:"consignee"`
	Items          []PackingListLine `json:"items"`
	TotalPieces    int               `json:"total_pieces"`
	TotalNetWeight float64           `json:"total_net_weight_kg"`
	TotalGrossWt   float64           `json:"total_gross_weight_kg"`
}

type PackingListLine struct {
	Description   string  `json:"description"`
	Quantity      int     `json:"quantity"`
	NetWeightKg   float64 `json:"net_weight_kg"`
	GrossWeightKg float64 `json:"gross_weight_kg"`
}

// Certificate is a certificate of origin.
type Certificate struct {
	Number        string            `json:"number"`
	OrderID       string            `json:"order_id"`
	IssuedAt      time.Time         `json:"issued_at"`
	Exporter      Party             `json:"exporter"`
	Consignee     Party             `json:"consignee"`
	OriginCountry string            `json:"origin_country"`
	Items         []CertificateLine `json:"items"`
}

type CertificateLine struct {
	Description string `json:"description"`
	HSCode      string `json:"hs_code"`
	Quantity    int    `json:"quantity"`
}
