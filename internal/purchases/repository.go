package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for the purchase flow.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	GetContent(ctx context.Context, contentID int64) (*purchasableContent, error)
	GetUserEmail(ctx context.Context, userID int64) (string, error)
	CreateTransaction(ctx context.Context, tx Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	SetTransactionStatus(ctx context.Context, id string, status TransactionStatus, providerRef string) error
	GrantPurchase(ctx context.Context, userID, contentID int64, transactionID string) error
	HasPurchase(ctx context.Context, userID, contentID int64) (bool, error)
	IncrementPurchaseCount(ctx context.Context, contentID int64) error
	ListLibrary(ctx context.Context, userID int64) ([]LibraryItem, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) GetContent(ctx context.Context, contentID int64) (*purchasableContent, error) {
	var c purchasableContent
	err := r.db.QueryRow(ctx, `
		SELECT id, title, status, is_free, price_cents FROM contents WHERE id = $1`, contentID,
	).Scan(&c.ID, &c.Title, &c.Status, &c.IsFree, &c.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("purchases: get content: %w", err)
	}
	return &c, nil
}

func (r *repository) GetUserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("purchases: get user email: %w", err)
	}
	return email, nil
}

func (r *repository) CreateTransaction(ctx context.Context, tx Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transactions (id, user_id, content_id, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5)`,
		tx.ID, tx.UserID, tx.ContentID, tx.AmountCents, tx.Status)
	if err != nil {
		return fmt.Errorf("purchases: create transaction: %w", err)
	}
	return nil
}

func (r *repository) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	var providerRef pgtype.Text
	var settledAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, content_id, amount_cents, status, provider_ref, created_at, settled_at
		FROM transactions WHERE id = $1`, id,
	).Scan(&tx.ID, &tx.UserID, &tx.ContentID, &tx.AmountCents, &tx.Status,
		&providerRef, &tx.CreatedAt, &settledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("purchases: get transaction: %w", err)
	}
	if providerRef.Valid {
		tx.ProviderRef = providerRef.String
	}
	if settledAt.Valid {
		t := settledAt.Time
		tx.SettledAt = &t
	}
	return &tx, nil
}

func (r *repository) SetTransactionStatus(ctx context.Context, id string, status TransactionStatus, providerRef string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions
		SET status = $1,
		    provider_ref = NULLIF($2, ''),
		    settled_at = CASE WHEN $1 = 'SETTLED' THEN NOW() ELSE settled_at END
		WHERE id = $3`,
		status, providerRef, id)
	if err != nil {
		return fmt.Errorf("purchases: set transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GrantPurchase(ctx context.Context, userID, contentID int64, transactionID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchases (user_id, content_id, transaction_id)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (user_id, content_id) DO NOTHING`,
		userID, contentID, transactionID)
	if err != nil {
		return fmt.Errorf("purchases: grant: %w", err)
	}
	return nil
}

func (r *repository) HasPurchase(ctx context.Context, userID, contentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id = $1 AND content_id = $2)`,
		userID, contentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("purchases: has purchase: %w", err)
	}
	return exists, nil
}

func (r *repository) IncrementPurchaseCount(ctx context.Context, contentID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE contents SET purchase_count = purchase_count + 1 WHERE id = $1`, contentID)
	if err != nil {
		return fmt.Errorf("purchases: increment count: %w", err)
	}
	return nil
}

func (r *repository) ListLibrary(ctx context.Context, userID int64) ([]LibraryItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.content_id, c.slug, c.title, c.type, p.granted_at
		FROM purchases p
		JOIN contents c ON c.id = p.content_id
		WHERE p.user_id = $1
		ORDER BY p.granted_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("purchases: list library: %w", err)
	}
	defer rows.Close()

	var items []LibraryItem
	for rows.Next() {
		var item LibraryItem
		if err := rows.Scan(&item.ContentID, &item.Slug, &item.Title, &item.Type, &item.GrantedAt); err != nil {
			return nil, fmt.Errorf("purchases: scan library: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
