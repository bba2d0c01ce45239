package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/store"
)

const testSecret = "middleware-test-secret-0123456789abcdef"

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     "admin",
		Email:        "admin@example.dev",
		PasswordHash: "unused",
		Role:         model.RoleAdmin,
	})
	require.NoError(t, err)
	return user
}

func issueToken(t *testing.T, tokens *auth.TokenService, user model.User) string {
	t.Helper()

	token, err := tokens.Issue(strconv.FormatInt(user.ID, 10), user.Role)
	require.NoError(t, err)
	return token
}

// echoUserHandler writes the context user's email, proving it was loaded.
func echoUserHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		require.NotNil(t, user)
		fmt.Fprint(w, user.Email)
	})
}

func TestRequireTokenHeader(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	tokens := auth.NewTokenService(testSecret)
	handler := RequireToken(tokens, db)(echoUserHandler(t))

	t.Run("x-auth-token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set(TokenHeader, issueToken(t, tokens, user))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.Email, rec.Body.String())
	})

	t.Run("bearer fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, user))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireTokenRejections(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	tokens := auth.NewTokenService(testSecret)
	handler := RequireToken(tokens, db)(echoUserHandler(t))

	expectUnauthorized := func(t *testing.T, req *http.Request) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var apiErr APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, "unauthorized", apiErr.Error.Code)
	}

	t.Run("missing token", func(t *testing.T) {
		expectUnauthorized(t, httptest.NewRequest(http.MethodGet, "/api/auth", nil))
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set(TokenHeader, "not.a.token")
		expectUnauthorized(t, req)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other := auth.NewTokenService("another-secret-for-foreign-tokens-123456")
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set(TokenHeader, issueToken(t, other, user))
		expectUnauthorized(t, req)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := tokens.Issue("9999", model.RoleAdmin)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set(TokenHeader, token)
		expectUnauthorized(t, req)
	})
}

func TestRequirePageRedirects(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	tokens := auth.NewTokenService(testSecret)
	handler := RequirePage(tokens, db)(echoUserHandler(t))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	})

	t.Run("invalid cookie cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "stale"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, TokenCookie, cookies[0].Name)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: issueToken(t, tokens, user)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.Email, rec.Body.String())
	})
}

func TestRedirectIfAuthenticated(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db)
	tokens := auth.NewTokenService(testSecret)

	loginPage := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "login form")
	})
	handler := RedirectIfAuthenticated(tokens, db)(loginPage)

	t.Run("anonymous sees login form", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, LoginPath, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("authenticated redirected to dashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: issueToken(t, tokens, user)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get("Location"))
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://app.example.dev"})(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set("Origin", "https://app.example.dev")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example.dev", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
		req.Header.Set("Origin", "https://app.example.dev")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), TokenHeader)
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set("Origin", "https://evil.example.dev")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoginProtectionLockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	locked, _ := lp.RecordFailedAttempt("a@example.dev")
	assert.False(t, locked)
	locked, _ = lp.RecordFailedAttempt("a@example.dev")
	assert.False(t, locked)
	locked, duration := lp.RecordFailedAttempt("a@example.dev")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, duration)

	isLocked, remaining := lp.IsAccountLocked("a@example.dev")
	assert.True(t, isLocked)
	assert.Positive(t, remaining)

	// Other accounts are unaffected.
	isLocked, _ = lp.IsAccountLocked("b@example.dev")
	assert.False(t, isLocked)

	lp.RecordSuccessfulLogin("a@example.dev")
	isLocked, _ = lp.IsAccountLocked("a@example.dev")
	assert.False(t, isLocked)
}

func TestLoginProtectionRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := lp.Middleware()(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// GET requests bypass the limiter.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	SecurityHeaders(true)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecurityHeaders(false)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
