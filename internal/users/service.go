package users

import (
	"context"
	"errors"

	"github.com/mentora-app/mentora/internal/authz"
	"github.com/mentora-app/mentora/internal/shared"
)

// ErrUnknownRole rejects role changes to roles outside the enumerated set.
var ErrUnknownRole = errors.New("users: unknown role")

// Service orchestrates account administration.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of accounts with pagination metadata.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Account, shared.PageInfo, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	accounts, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, shared.PageInfo{}, err
	}
	return accounts, shared.NewPageInfo(req.Page, req.Limit, total), nil
}

// ChangeRole moves an account to another enumerated role.
func (s *Service) ChangeRole(ctx context.Context, id int64, role string) error {
	if !authz.KnownRole(authz.Role(role)) {
		return ErrUnknownRole
	}
	return s.repo.SetRole(ctx, id, role)
}

// Deactivate blocks an account from signing in.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

// Activate re-enables an account.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}
