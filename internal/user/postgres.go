package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the user and fills in the generated id. The email is
// lower-cased before storage so the unique index compares apples to apples.
func (s *PostgresStore) Create(ctx context.Context, u *User) (*User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.FirstName, u.LastName, u.Email, u.HashedPassword).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}

	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, hashed_password, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.HashedPassword, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}

	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*User, error) {
	u := &User{}

	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, hashed_password, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.HashedPassword, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by id: %w", err)
	}

	return u, nil
}
