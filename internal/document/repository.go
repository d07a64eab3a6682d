// ShopifyQ | 2026
// repository.go

package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopifyq/backend/internal/core"
)

// Kind selects which document table an operation targets.
type Kind string

const (
	KindInvoice     Kind = "invoice"
	KindPackingList Kind = "packing_list"
	KindCertificate Kind = "certificate"
)

var kindTables = map[Kind]string{
	KindInvoice:     "order_invoices",
	KindPackingList: "order_packing_lists",
	KindCertificate: "order_certificates",
}

var kindSequences = map[Kind]string{
	KindInvoice:     "invoice_number_seq",
	KindPackingList: "packing_list_number_seq",
	KindCertificate: "certificate_number_seq",
}

type Repository interface {
	NextSequence(ctx context.Context, kind Kind) (int64, error)
	Save(ctx context.Context, kind Kind, rec *Record) error
	GetByOrder(ctx context.Context, kind Kind, userID, orderID string) (*Record, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// NextSequence draws the next document number from the per-kind
// Postgres sequence. Numbers are unique across the deployment, not per
// user, so two tenants never share an invoice number.
func (r *repository) NextSequence(ctx context.Context, kind Kind) (int64, error) {
	seq, ok := kindSequences[kind]
	if !ok {
		return 0, fmt.Errorf("document kind %q: %w", kind, core.ErrInvalidInput)
	}

	var next int64
	if err := r.db.GetContext(ctx, &next, fmt.Sprintf("SELECT nextval('%s')", seq)); err != nil {
		return 0, fmt.Errorf("next %s number: %w", kind, err)
	}
	return next, nil
}

// Save upserts on (user_id, order_id): regenerating a document for the
// same order replaces the previous one under a fresh number.
func (r *repository) Save(ctx context.Context, kind Kind, rec *Record) error {
	table, ok := kindTables[kind]
	if !ok {
		return fmt.Errorf("document kind %q: %w", kind, core.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, order_id, number, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, order_id) DO UPDATE
		SET number = EXCLUDED.number,
		    payload = EXCLUDED.payload,
		    created_at = NOW()
		RETURNING created_at`, table)

	err := r.db.QueryRowxContext(ctx, query,
		rec.ID, rec.UserID, rec.OrderID, rec.Number, rec.Payload,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}

func (r *repository) GetByOrder(ctx context.Context, kind Kind, userID, orderID string) (*Record, error) {
	table, ok := kindTables[kind]
	if !ok {
		return nil, fmt.Errorf("document kind %q: %w", kind, core.ErrInvalidInput)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, order_id, number, payload, created_at
		FROM %s
		WHERE user_id = $1 AND order_id = $2`, table)

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, userID, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s for order %s: %w", kind, orderID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return &rec, nil
}
