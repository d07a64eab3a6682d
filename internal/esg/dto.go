// ShopifyQ | 2026
// dto.go

package esg

import (
	"time"
)

type CreateRequestRequest struct {
	ProductID     string `json:"product_id" validate:"required,max=64"`
	Title         string `json:"title" validate:"required,max=500"`
	Vendor        string `json:"vendor" validate:"required,max=255"`
	OriginCountry string `json:"origin_country" validate:"required,len=2"`
}

type RequestResponse struct {
	ID            string         `json:"id"`
	ProductID     string         `json:"product_id"`
	Title         string         `json:"title"`
	Vendor        string         `json:"vendor"`
	OriginCountry string         `json:"origin_country"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	Score         *ScoreResponse `json:"score,omitempty"`
}

type ScoreResponse struct {
	ProductID     string    `json:"product_id"`
	Environmental float64   `json:"environmental"`
	Social        float64   `json:"social"`
	Governance    float64   `json:"governance"`
	Overall       float64   `json:"overall"`
	ScoredAt      time.Time `json:"scored_at"`
}

func toRequestResponse(r *Request) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		ProductID:     r.ProductID,
		Title:         r.Title,
		Vendor:        r.Vendor,
		OriginCountry: r.OriginCountry,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
}

func toScoreResponse(s *Score) ScoreResponse {
	return ScoreResponse{
		ProductID:     s.ProductID,
		Environmental: s.Environmental,
		Social:        s.Social,
		Governance:    s.Governance,
		Overall:       s.Overall,
		ScoredAt:      s.ScoredAt,
	}
}
