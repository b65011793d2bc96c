package auth

import (
	"time"

	"github.com/mentora-app/mentora/internal/authz"
)

// User represents an account able to sign in.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
