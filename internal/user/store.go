package user

import (
	"context"
	"errors"
)

var (
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrNotFound       = errors.New("user not found")
)

// Store persists users. Email comparisons are case-insensitive.
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
