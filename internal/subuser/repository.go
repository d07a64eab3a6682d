// ShopifyQ | 2026
// repository.go

package subuser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopifyq/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, sub *SubUser) error
	GetByID(ctx context.Context, ownerID, id string) (*SubUser, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*SubUser, error)
	Update(ctx context.Context, sub *SubUser) error
	Delete(ctx context.Context, ownerID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const subUserColumns = `id, owner_id, name, email, password_hash, role, created_at, updated_at`

func (r *repository) Create(ctx context.Context, sub *SubUser) error {
	query := `
		INSERT INTO sub_users (id, owner_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		sub.ID, sub.OwnerID, sub.Name, sub.Email, sub.PasswordHash, sub.Role,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("sub-user email: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create sub-user: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, ownerID, id string) (*SubUser, error) {
	query := `SELECT ` + subUserColumns + ` FROM sub_users WHERE owner_id = $1 AND id = $2`

	var sub SubUser
	if err := r.db.GetContext(ctx, &sub, query, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sub-user %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get sub-user: %w", err)
	}
	return &sub, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]*SubUser, error) {
	query := `SELECT ` + subUserColumns + ` FROM sub_users WHERE owner_id = $1 ORDER BY created_at`

	subs := []*SubUser{}
	if err := r.db.SelectContext(ctx, &subs, query, ownerID); err != nil {
		return nil, fmt.Errorf("list sub-users: %w", err)
	}
	return subs, nil
}

func (r *repository) Update(ctx context.Context, sub *SubUser) error {
	query := `
		UPDATE sub_users
		SET name = $3, role = $4, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		sub.OwnerID, sub.ID, sub.Name, sub.Role,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sub-user %s: %w", sub.ID, core.ErrNotFound)
		}
		return fmt.Errorf("update sub-user: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sub_users WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete sub-user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sub-user rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sub-user %s: %w", id, core.ErrNotFound)
	}
	return nil
}
