package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth"
	"authgate/internal/auth/credentials"
	"authgate/internal/middleware"
	"authgate/internal/password"
	"authgate/internal/session"
	"authgate/internal/user"
)

// ---- in-memory stores ----

type memUserStore struct {
	mu     sync.Mutex
	users  map[string]*user.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*user.User)}
}

func (s *memUserStore) Create(_ context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, exists := s.users[key]; exists {
		return nil, user.ErrDuplicateEmail
	}
	s.nextID++
	u.ID = s.nextID
	s.users[key] = u
	return u, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memUserStore) delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, u := range s.users {
		if u.ID == id {
			delete(s.users, k)
		}
	}
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]session.Session)}
}

func (s *memSessionStore) Create(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; exists {
		return session.ErrDuplicateID
	}
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *memSessionStore) Refresh(_ context.Context, id string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return session.ErrWriteConflict
	}
	sess.ExpiresAt = expiresAt
	s.sessions[id] = sess
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memSessionStore) expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	s.sessions[id] = sess
}

// ---- router wiring mirroring the app setup ----

type testEnv struct {
	router   *gin.Engine
	users    *memUserStore
	sessions *memSessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUserStore()
	sessions := newMemSessionStore()

	hasher, err := password.NewHasher(password.Config{
		Time:        1,
		MemoryKB:    8 * 1024,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)

	creds := credentials.NewService(users, hasher)
	lifecycle := auth.NewManager(sessions, users, time.Hour, time.Hour)

	h := NewHandler(creds, lifecycle, session.CookieOptions{SameSite: http.SameSiteLaxMode})
	gate := middleware.NewAuthMiddleware(lifecycle)

	router := gin.New()
	h.RegisterRoutes(router)

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(gate))
	api.GET("/me", func(c *gin.Context) {
		u, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})

	web := router.Group("/")
	web.Use(middleware.GinRequireAuth(gate.WithRedirect("/login")))
	web.GET("/dashboard", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})

	return &testEnv{router: router, users: users, sessions: sessions}
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func signupValues(email, pw string) url.Values {
	return url.Values{
		"firstName": {"Ada"},
		"lastName":  {"Lovelace"},
		"email":     {email},
		"password":  {pw},
	}
}

func loginValues(email, pw string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {pw},
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// ---- tests ----

func TestSignupSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/auth/signup", signupValues("1234@gmail.com", "1234"))
	require.Equal(t, http.StatusCreated, rec.Code)

	// no session is created on signup
	require.Empty(t, env.sessions.sessions)
	require.Empty(t, rec.Result().Cookies())
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.postForm("/auth/signup", signupValues("ada@example.com", "pw")).Code)

	rec := env.postForm("/auth/signup", signupValues("ADA@example.com", "pw"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), user.ErrDuplicateEmail.Error())
}

func TestSignupMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/auth/signup", url.Values{"email": {"a@b.com"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("1234@gmail.com", "1234"))

	rec := env.postForm("/auth/login", loginValues("1234@gmail.com", "1234"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookie := sessionCookie(t, rec)
	require.NotEmpty(t, cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.HttpOnly)
	// server-side TTL governs validity; the cookie itself carries no expiry
	require.Zero(t, cookie.MaxAge)
	require.True(t, cookie.Expires.IsZero())
}

func TestLoginFailureIsUniform(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("ada@example.com", "right"))

	wrongPassword := env.postForm("/auth/login", loginValues("ada@example.com", "wrong"))
	unknownEmail := env.postForm("/auth/login", loginValues("nobody@example.com", "whatever"))

	require.Equal(t, http.StatusUnprocessableEntity, wrongPassword.Code)
	require.Equal(t, http.StatusUnprocessableEntity, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestProtectedRouteWithValidSession(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("ada@example.com", "pw"))
	cookie := sessionCookie(t, env.postForm("/auth/login", loginValues("ada@example.com", "pw")))

	rec := env.get("/api/me", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ada@example.com")
}

func TestValidRequestSlidesExpiry(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("ada@example.com", "pw"))
	cookie := sessionCookie(t, env.postForm("/auth/login", loginValues("ada@example.com", "pw")))

	before := env.sessions.sessions[cookie.Value].ExpiresAt
	time.Sleep(5 * time.Millisecond)

	require.Equal(t, http.StatusOK, env.get("/api/me", cookie).Code)

	after := env.sessions.sessions[cookie.Value].ExpiresAt
	require.True(t, after.After(before))
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusUnauthorized, env.get("/api/me").Code)

	rec := env.get("/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestExpiredSessionIsReaped(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("ada@example.com", "pw"))
	cookie := sessionCookie(t, env.postForm("/auth/login", loginValues("ada@example.com", "pw")))

	env.sessions.expire(cookie.Value)

	require.Equal(t, http.StatusUnauthorized, env.get("/api/me", cookie).Code)

	// the row must no longer be retrievable
	s, err := env.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestOrphanedSessionIsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("ada@example.com", "pw"))
	cookie := sessionCookie(t, env.postForm("/auth/login", loginValues("ada@example.com", "pw")))

	sess, err := env.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	env.users.delete(sess.UserID)

	require.Equal(t, http.StatusUnauthorized, env.get("/api/me", cookie).Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	env.postForm("/auth/signup", signupValues("ada@example.com", "pw"))
	cookie := sessionCookie(t, env.postForm("/auth/login", loginValues("ada@example.com", "pw")))

	rec := env.postForm("/auth/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, env.sessions.sessions)

	// the cleared cookie is sent back with MaxAge -1
	cleared := sessionCookie(t, rec)
	require.Empty(t, cleared.Value)
	require.Equal(t, -1, cleared.MaxAge)

	// logout without a session is still 204
	require.Equal(t, http.StatusNoContent, env.postForm("/auth/logout", url.Values{}).Code)
}
