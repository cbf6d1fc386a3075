// Package credentials implements password-based registration and
// authentication against the user store.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"authgate/internal/user"
)

// ErrInvalidCredentials deliberately merges "no such user" and "wrong
// password" so a caller cannot probe which emails exist.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Hasher abstracts the password hashing scheme.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

type Service struct {
	users  user.Store
	hasher Hasher
}

func NewService(users user.Store, hasher Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register hashes the password and creates the user. The email is lower-cased
// before storage. A duplicate email surfaces as user.ErrDuplicateEmail; no
// session is created here, signup and login are decoupled.
func (s *Service) Register(ctx context.Context, in SignupInput) (*user.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, &user.User{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		HashedPassword: hash,
	})
}

// Authenticate looks the user up by email and verifies the password. Both an
// unknown email and a wrong password produce the identical
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.HashedPassword)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
