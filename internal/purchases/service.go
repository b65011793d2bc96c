package purchases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ReceiptEnqueuer queues the receipt email after a settled payment.
// Implemented by the jobs client; nil disables receipts.
type ReceiptEnqueuer interface {
	EnqueueReceipt(ctx context.Context, email, contentTitle string, amountCents int64) error
}

// StartResult reports the outcome of a purchase attempt.
type StartResult struct {
	Granted       bool   `json:"granted"`
	TransactionID string `json:"transactionId,omitempty"`
	AmountCents   int64  `json:"amountCents,omitempty"`
}

// Service orchestrates the purchase flow.
type Service struct {
	repo     Repository
	receipts ReceiptEnqueuer
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, receipts ReceiptEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, receipts: receipts, logger: logger}
}

// Start begins a purchase. Free content is granted immediately; paid content
// opens a PENDING transaction for the payment provider to settle.
func (s *Service) Start(ctx context.Context, userID, contentID int64) (*StartResult, error) {
	content, err := s.repo.GetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content.Status != "PUBLISHED" {
		return nil, ErrContentUnavailable
	}

	owned, err := s.repo.HasPurchase(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	if content.IsFree {
		err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
			if err := tx.GrantPurchase(ctx, userID, contentID, ""); err != nil {
				return err
			}
			return tx.IncrementPurchaseCount(ctx, contentID)
		})
		if err != nil {
			return nil, err
		}
		return &StartResult{Granted: true}, nil
	}

	transaction := Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		ContentID:   contentID,
		AmountCents: content.PriceCents,
		Status:      StatusPending,
	}
	if err := s.repo.CreateTransaction(ctx, transaction); err != nil {
		return nil, err
	}
	return &StartResult{TransactionID: transaction.ID, AmountCents: transaction.AmountCents}, nil
}

// Settle finalizes a pending transaction after provider confirmation. The
// operation is idempotent: a transaction already settled is a no-op, so
// provider webhook retries are safe. Grant, counter bump and status flip
// commit atomically.
func (s *Service) Settle(ctx context.Context, transactionID, providerRef string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		transaction, err := tx.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		if transaction.Status == StatusSettled {
			return nil
		}
		if transaction.Status != StatusPending {
			return fmt.Errorf("purchases: settle %s: transaction is %s", transactionID, transaction.Status)
		}

		if err := tx.SetTransactionStatus(ctx, transactionID, StatusSettled, providerRef); err != nil {
			return err
		}
		if err := tx.GrantPurchase(ctx, transaction.UserID, transaction.ContentID, transactionID); err != nil {
			return err
		}
		if err := tx.IncrementPurchaseCount(ctx, transaction.ContentID); err != nil {
			return err
		}

		s.sendReceipt(ctx, tx, transaction)
		return nil
	})
}

// Fail marks a pending transaction as failed.
func (s *Service) Fail(ctx context.Context, transactionID, providerRef string) error {
	transaction, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if transaction.Status != StatusPending {
		return nil
	}
	return s.repo.SetTransactionStatus(ctx, transactionID, StatusFailed, providerRef)
}

// HasAccess reports whether the user owns the content.
func (s *Service) HasAccess(ctx context.Context, userID, contentID int64) (bool, error) {
	return s.repo.HasPurchase(ctx, userID, contentID)
}

// Library returns the user's owned content, newest grant first.
func (s *Service) Library(ctx context.Context, userID int64) ([]LibraryItem, error) {
	return s.repo.ListLibrary(ctx, userID)
}

// sendReceipt is best effort; a queue outage must not roll back a settled
// payment.
func (s *Service) sendReceipt(ctx context.Context, repo Repository, transaction *Transaction) {
	if s.receipts == nil {
		return
	}
	email, err := repo.GetUserEmail(ctx, transaction.UserID)
	if err != nil {
		s.logger.Warn("receipt email lookup", slog.Any("error", err))
		return
	}
	content, err := repo.GetContent(ctx, transaction.ContentID)
	if err != nil {
		s.logger.Warn("receipt content lookup", slog.Any("error", err))
		return
	}
	if err := s.receipts.EnqueueReceipt(ctx, email, content.Title, transaction.AmountCents); err != nil {
		s.logger.Warn("enqueue receipt", slog.Any("error", err))
	}
}
