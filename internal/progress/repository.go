package progress

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store abstracts progress persistence for the handler.
type Store interface {
	Upsert(ctx context.Context, userID, contentID int64, positionSeconds int, percent float64, completed bool) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]Record, error)
}

// Repository provides PostgreSQL backed persistence for playback progress.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert stores the latest position for (user, content).
func (r *Repository) Upsert(ctx context.Context, userID, contentID int64, positionSeconds int, percent float64, completed bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO playback_progress (user_id, content_id, position_seconds, percent, completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, content_id) DO UPDATE SET
			position_seconds = EXCLUDED.position_seconds,
			percent = EXCLUDED.percent,
			completed = playback_progress.completed OR EXCLUDED.completed,
			updated_at = NOW()`,
		userID, contentID, positionSeconds, percent, completed)
	if err != nil {
		return fmt.Errorf("progress: upsert: %w", err)
	}
	return nil
}

// ListRecent returns the user's most recently touched items.
func (r *Repository) ListRecent(ctx context.Context, userID int64, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.content_id, c.slug, c.title, p.position_seconds, p.percent, p.completed, p.updated_at
		FROM playback_progress p
		JOIN contents c ON c.id = p.content_id
		WHERE p.user_id = $1
		ORDER BY p.updated_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("progress: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ContentID, &rec.Slug, &rec.Title, &rec.PositionSeconds,
			&rec.Percent, &rec.Completed, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("progress: scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
