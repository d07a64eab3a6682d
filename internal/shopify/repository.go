// ShopifyQ | 2026
// repository.go

package shopify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopifyq/backend/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, shop *Shop) error
	GetByUserAndDomain(ctx context.Context, userID, domain string) (*Shop, error)
	ListByUser(ctx context.Context, userID string) ([]*Shop, error)
	Delete(ctx context.Context, userID, domain string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const shopColumns = `id, user_id, domain, access_token_sealed, scopes, installed_at, updated_at`

func (r *repository) Upsert(ctx context.Context, shop *Shop) error {
	query := `
		INSERT INTO shops (id, user_id, domain, access_token_sealed, scopes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, domain) DO UPDATE
		SET access_token_sealed = EXCLUDED.access_token_sealed,
		    scopes = EXCLUDED.scopes,
		    updated_at = NOW()
		RETURNING ` + shopColumns

	err := r.db.QueryRowxContext(ctx, query,
		shop.ID, shop.UserID, shop.Domain, shop.AccessTokenSealed, shop.Scopes,
	).StructScan(shop)
	if err != nil {
		return fmt.Errorf("upsert shop: %w", err)
	}
	return nil
}

func (r *repository) GetByUserAndDomain(ctx context.Context, userID, domain string) (*Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE user_id = $1 AND domain = $2`

	var shop Shop
	if err := r.db.GetContext(ctx, &shop, query, userID, domain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("shop %s: %w", domain, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &shop, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE user_id = $1 ORDER BY installed_at DESC`

	shops := []*Shop{}
	if err := r.db.SelectContext(ctx, &shops, query, userID); err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	return shops, nil
}

func (r *repository) Delete(ctx context.Context, userID, domain string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shops WHERE user_id = $1 AND domain = $2`, userID, domain)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shop rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("shop %s: %w", domain, core.ErrNotFound)
	}
	return nil
}
