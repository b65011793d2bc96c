package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for content records.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, filter Filter) ([]Content, int, error)
	Get(ctx context.Context, id int64) (*Content, error)
	GetBySlug(ctx context.Context, slug string) (*Content, error)
	Create(ctx context.Context, content Content) (int64, error)
	Update(ctx context.Context, id int64, updates ContentUpdate) error
	SetStatus(ctx context.Context, id int64, status Status, publishedAt *time.Time) error
	ListCategories(ctx context.Context) ([]Category, error)
}

// ContentUpdate carries the optional fields of an admin edit; nil fields are
// left untouched.
type ContentUpdate struct {
	Title       *string
	Excerpt     *string
	Description *string
	Type        *ContentType
	Difficulty  *Difficulty
	IsFree      *bool
	PriceCents  *int64
	MediaURL    *string
	Body        *string
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

const contentColumns = `id, slug, title, excerpt, description, type, difficulty, status,
	is_free, price_cents, media_url, body, rating, purchase_count,
	(SELECT COALESCE(array_agg(c.slug ORDER BY c.slug), '{}') FROM content_categories cc
		JOIN categories c ON c.id = cc.category_id WHERE cc.content_id = contents.id),
	published_at, created_at, updated_at`

// List runs the count and the page read under one predicate set within a
// single invocation.
func (r *repository) List(ctx context.Context, filter Filter) ([]Content, int, error) {
	filter = filter.Normalized()

	var args []any
	conds := make([]string, 0, 8)
	for _, pred := range filter.Predicates() {
		conds = append(conds, pred.SQL(&args))
	}
	whereClause := "WHERE " + strings.Join(conds, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM contents %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM contents %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		contentColumns, whereClause, filter.OrderBy(), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	items := make([]Content, 0, filter.Limit)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("catalog: scan: %w", err)
		}
		items = append(items, content)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("catalog: rows: %w", err)
	}
	return items, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Content, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Content, error) {
	return r.getWhere(ctx, "slug = $1", slug)
}

func (r *repository) getWhere(ctx context.Context, cond string, arg any) (*Content, error) {
	query := fmt.Sprintf("SELECT %s FROM contents WHERE %s", contentColumns, cond)
	row := r.db.QueryRow(ctx, query, arg)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get: %w", err)
	}
	return &content, nil
}

func (r *repository) Create(ctx context.Context, content Content) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO contents (slug, title, excerpt, description, type, difficulty, status,
			is_free, price_cents, media_url, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''))
		RETURNING id`,
		content.Slug, content.Title, content.Excerpt, content.Description,
		content.Type, content.Difficulty, StatusDraft,
		content.IsFree, content.PriceCents, content.MediaURL, content.Body,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrSlugTaken
		}
		return 0, fmt.Errorf("catalog: create: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates ContentUpdate) error {
	sets := []string{"updated_at = NOW()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.Title != nil {
		add("title", *updates.Title)
	}
	if updates.Excerpt != nil {
		add("excerpt", *updates.Excerpt)
	}
	if updates.Description != nil {
		add("description", *updates.Description)
	}
	if updates.Type != nil {
		add("type", *updates.Type)
	}
	if updates.Difficulty != nil {
		add("difficulty", *updates.Difficulty)
	}
	if updates.IsFree != nil {
		add("is_free", *updates.IsFree)
	}
	if updates.PriceCents != nil {
		add("price_cents", *updates.PriceCents)
	}
	if updates.MediaURL != nil {
		add("media_url", *updates.MediaURL)
	}
	if updates.Body != nil {
		add("body", *updates.Body)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE contents SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("catalog: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status, publishedAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE contents SET status = $1, published_at = COALESCE($2, published_at), updated_at = NOW()
		WHERE id = $3`,
		status, publishedAt, id)
	if err != nil {
		return fmt.Errorf("catalog: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanContent(row pgx.Row) (Content, error) {
	var c Content
	var mediaURL, body pgtype.Text
	var publishedAt pgtype.Timestamptz
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Excerpt, &c.Description, &c.Type, &c.Difficulty, &c.Status,
		&c.IsFree, &c.PriceCents, &mediaURL, &body, &c.Rating, &c.PurchaseCount,
		&c.Categories, &publishedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return Content{}, err
	}

	if mediaURL.Valid {
		c.MediaURL = mediaURL.String
	}
	if body.Valid {
		c.Body = body.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		c.PublishedAt = &t
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return c, nil
}
