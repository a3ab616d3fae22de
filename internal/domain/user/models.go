package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is the identity anchor for transactions and the personality profile.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateParams struct {
	Email        string
	PasswordHash string
}
