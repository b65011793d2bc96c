// Package purchases implements the payment and content-access flow: free
// grants, pending transactions, provider settlement and the user library.
package purchases

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("purchases: not found")
	ErrAlreadyOwned       = errors.New("purchases: content already owned")
	ErrContentUnavailable = errors.New("purchases: content unavailable")
)

// TransactionStatus is the lifecycle state of a payment.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSettled TransactionStatus = "SETTLED"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction records one payment attempt for one piece of content.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      int64             `json:"userId"`
	ContentID   int64             `json:"contentId"`
	AmountCents int64             `json:"amountCents"`
	Status      TransactionStatus `json:"status"`
	ProviderRef string            `json:"providerRef,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	SettledAt   *time.Time        `json:"settledAt,omitempty"`
}

// LibraryItem is one owned piece of content in a user's library.
type LibraryItem struct {
	ContentID int64     `json:"contentId"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	GrantedAt time.Time `json:"grantedAt"`
}

// purchasableContent is the subset of a catalog row the flow needs.
type purchasableContent struct {
	ID         int64
	Title      string
	Status     string
	IsFree     bool
	PriceCents int64
}
