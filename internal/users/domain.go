package users

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("users: not found")

// Account is the administrative view of a user record.
type Account struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListRequest filters the account listing.
type ListRequest struct {
	Search string
	Role   string
	Page   int
	Limit  int
}
