package catalog

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mentora-app/mentora/internal/shared"
)

// listFailureMessage is the fixed user-facing error for catalog reads; the
// underlying cause goes to the operator log only.
const listFailureMessage = "Konten tidak dapat dimuat saat ini. Silakan coba lagi."

// ListResponse is the envelope returned to catalog callers. Failures are
// soft: Success flips to false and the pagination resets, but the shape is
// always complete.
type ListResponse struct {
	Success    bool            `json:"success"`
	Data       []Content       `json:"data"`
	Error      string          `json:"error,omitempty"`
	Pagination shared.PageInfo `json:"pagination"`
}

// Service coordinates catalog reads and the admin mutations.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	flights singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type listOutcome struct {
	items []Content
	total int
}

// List builds and runs the filtered catalog query. It never mutates the
// catalog and never propagates a store failure: errors become the soft
// envelope. Identical concurrent requests are collapsed onto one store read.
func (s *Service) List(ctx context.Context, filter Filter) ListResponse {
	filter = filter.Normalized()

	result, err, _ := s.flights.Do(filter.Key(), func() (any, error) {
		items, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return listOutcome{items: items, total: total}, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("catalog list failed", slog.Any("error", err))
		}
		return ListResponse{
			Success:    false,
			Data:       []Content{},
			Error:      listFailureMessage,
			Pagination: shared.NewPageInfo(1, DefaultPageLimit, 0),
		}
	}

	outcome := result.(listOutcome)
	items := make([]Content, len(outcome.items))
	for i, item := range outcome.items {
		items[i] = item.Locked()
	}
	return ListResponse{
		Success:    true,
		Data:       items,
		Pagination: shared.NewPageInfo(filter.Page, filter.Limit, outcome.total),
	}
}

// GetPublished returns a published record by slug, media locked.
func (s *Service) GetPublished(ctx context.Context, slug string) (*Content, error) {
	content, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if content.Status != StatusPublished {
		return nil, ErrNotFound
	}
	locked := content.Locked()
	return &locked, nil
}

// GetUnlocked returns a published record with media included. Callers must
// have verified access first.
func (s *Service) GetUnlocked(ctx context.Context, slug string) (*Content, error) {
	content, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if content.Status != StatusPublished {
		return nil, ErrNotFound
	}
	return content, nil
}

// Categories lists all category tags.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// Create inserts a draft record.
func (s *Service) Create(ctx context.Context, content Content) (int64, error) {
	return s.repo.Create(ctx, content)
}

// Update patches an existing record.
func (s *Service) Update(ctx context.Context, id int64, updates ContentUpdate) error {
	return s.repo.Update(ctx, id, updates)
}

// Publish flips a draft or archived record to PUBLISHED, stamping the
// publish time on first publication.
func (s *Service) Publish(ctx context.Context, id int64) error {
	content, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if content.Title == "" {
		return ErrNotPublishable
	}
	var publishedAt *time.Time
	if content.PublishedAt == nil {
		now := time.Now().UTC()
		publishedAt = &now
	}
	return s.repo.SetStatus(ctx, id, StatusPublished, publishedAt)
}

// Archive removes a record from the public catalog without deleting it.
func (s *Service) Archive(ctx context.Context, id int64) error {
	return s.repo.SetStatus(ctx, id, StatusArchived, nil)
}
