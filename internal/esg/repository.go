// ShopifyQ | 2026
// repository.go

package esg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopifyq/backend/internal/core"
)

type Repository interface {
	CreateRequest(ctx context.Context, req *Request) error
	UpdateRequestStatus(ctx context.Context, id, status string) error
	ListRequests(ctx context.Context, userID string, limit, offset int) ([]*Request, int, error)
	UpsertScore(ctx context.Context, score *Score) error
	GetScore(ctx context.Context, userID, productID string) (*Score, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRequest(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO esg_requests (id, user_id, product_id, title, vendor, origin_country, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		req.ID, req.UserID, req.ProductID, req.Title, req.Vendor, req.OriginCountry, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create esg request: %w", err)
	}
	return nil
}

func (r *repository) UpdateRequestStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE esg_requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update esg request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update esg request rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("esg request %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *repository) ListRequests(ctx context.Context, userID string, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM esg_requests WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("count esg requests: %w", err)
	}

	query := `
		SELECT id, user_id, product_id, title, vendor, origin_country, status, created_at, updated_at
		FROM esg_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	requests := []*Request{}
	if err := r.db.SelectContext(ctx, &requests, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list esg requests: %w", err)
	}
	return requests, total, nil
}

func (r *repository) UpsertScore(ctx context.Context, score *Score) error {
	query := `
		INSERT INTO product_esg_scores (id, user_id, product_id, environmental, social, governance, overall)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET environmental = EXCLUDED.environmental,
		    social = EXCLUDED.social,
		    governance = EXCLUDED.governance,
		    overall = EXCLUDED.overall,
		    scored_at = NOW()
		RETURNING scored_at`

	err := r.db.QueryRowxContext(ctx, query,
		score.ID, score.UserID, score.ProductID,
		score.Environmental, score.Social, score.Governance, score.Overall,
	).Scan(&score.ScoredAt)
	if err != nil {
		return fmt.Errorf("upsert esg score: %w", err)
	}
	return nil
}

func (r *repository) GetScore(ctx context.Context, userID, productID string) (*Score, error) {
	query := `
		SELECT id, user_id, product_id, environmental, social, governance, overall, scored_at
		FROM product_esg_scores
		WHERE user_id = $1 AND product_id = $2`

	var score Score
	if err := r.db.GetContext(ctx, &score, query, userID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("esg score for product %s: %w", productID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get esg score: %w", err)
	}
	return &score, nil
}
