package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRefresher recomputes denormalised catalog aggregates from the source
// tables. The request path bumps purchase_count optimistically; this job is
// the reconciliation pass that corrects drift and folds in review ratings.
type StatsRefresher struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStatsRefresher constructs a StatsRefresher.
func NewStatsRefresher(pool *pgxpool.Pool, logger *slog.Logger) *StatsRefresher {
	return &StatsRefresher{pool: pool, logger: logger}
}

// Handler returns the Asynq handler for TaskTypeCatalogStats.
func (s *StatsRefresher) Handler() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		return s.Refresh(ctx)
	}
}

// Refresh recomputes purchase counts and average ratings in one statement
// each.
func (s *StatsRefresher) Refresh(ctx context.Context) error {
	tagPurchases, err := s.pool.Exec(ctx, `
		UPDATE contents c SET purchase_count = sub.cnt
		FROM (
			SELECT content_id, COUNT(*) AS cnt FROM purchases GROUP BY content_id
		) sub
		WHERE sub.content_id = c.id AND c.purchase_count <> sub.cnt`)
	if err != nil {
		return fmt.Errorf("jobs: refresh purchase counts: %w", err)
	}

	tagRatings, err := s.pool.Exec(ctx, `
		UPDATE contents c SET rating = ROUND(sub.avg_rating, 2)
		FROM (
			SELECT content_id, AVG(stars)::numeric AS avg_rating FROM reviews GROUP BY content_id
		) sub
		WHERE sub.content_id = c.id`)
	if err != nil {
		return fmt.Errorf("jobs: refresh ratings: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("catalog stats refreshed",
			slog.Int64("purchase_rows", tagPurchases.RowsAffected()),
			slog.Int64("rating_rows", tagRatings.RowsAffected()))
	}
	return nil
}
