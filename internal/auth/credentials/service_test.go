package credentials

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"authgate/internal/password"
	"authgate/internal/user"
)

type stubUserStore struct {
	users  map[string]*user.User // keyed by lower-cased email
	nextID int64
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]*user.User)}
}

func (s *stubUserStore) Create(_ context.Context, u *user.User) (*user.User, error) {
	key := strings.ToLower(u.Email)
	if _, exists := s.users[key]; exists {
		return nil, user.ErrDuplicateEmail
	}
	s.nextID++
	u.ID = s.nextID
	s.users[key] = u
	return u, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *stubUserStore) {
	t.Helper()
	hasher, err := password.NewHasher(password.Config{
		Time:        1,
		MemoryKB:    8 * 1024,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)
	store := newStubUserStore()
	return NewService(store, hasher), store
}

func TestRegisterLowercasesEmailAndHashes(t *testing.T) {
	svc, store := newTestService(t)

	u, err := svc.Register(context.Background(), SignupInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.COM",
		Password:  "1234",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.NotEqual(t, "1234", u.HashedPassword)
	require.Contains(t, store.users, "ada@example.com")
}

func TestRegisterDuplicateEmailAnyCasing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), SignupInput{
		FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), SignupInput{
		FirstName: "Ada", LastName: "L", Email: "ADA@EXAMPLE.COM", Password: "pw",
	})
	require.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), SignupInput{
		FirstName: "Ada", LastName: "L", Email: "1234@gmail.com", Password: "1234",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "1234@gmail.com", "1234")
	require.NoError(t, err)
	require.Equal(t, "1234@gmail.com", u.Email)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), SignupInput{
		FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "right",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(context.Background(), "ada@example.com", "wrong")
	_, unknownEmail := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	// not just the same sentinel: the identical user-visible message
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
