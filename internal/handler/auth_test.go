package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hus-nain/portfolio-go/internal/middleware"
)

func TestLoginFormRenders(t *testing.T) {
	env := pageSetup(t)

	rec := httptest.NewRecorder()
	env.auth.LoginForm(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/admin/login"`)
	assert.Contains(t, body, `name="password"`)
}

func TestLoginSuccess(t *testing.T) {
	env := pageSetup(t)
	user := env.createAdmin(t, "correct horse battery")

	form := url.Values{
		"email":    {user.Email},
		"password": {"correct horse battery"},
	}
	rec := httptest.NewRecorder()
	env.auth.Login(rec, newFormRequest("/admin/login", form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.TokenCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	claims, err := env.tokens.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), claims.Subject)
}

func TestLoginWrongPassword(t *testing.T) {
	env := pageSetup(t)
	user := env.createAdmin(t, "correct horse battery")

	form := url.Values{
		"email":    {user.Email},
		"password": {"wrong"},
	}
	rec := httptest.NewRecorder()
	env.auth.Login(rec, newFormRequest("/admin/login", form))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginUnknownEmail(t *testing.T) {
	env := pageSetup(t)

	form := url.Values{
		"email":    {"nobody@example.dev"},
		"password": {"whatever"},
	}
	rec := httptest.NewRecorder()
	env.auth.Login(rec, newFormRequest("/admin/login", form))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLoginMissingFields(t *testing.T) {
	env := pageSetup(t)

	rec := httptest.NewRecorder()
	env.auth.Login(rec, newFormRequest("/admin/login", url.Values{"email": {"a@b.c"}}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Email and password are required")
	// the email is kept so the visitor only retypes the password
	assert.Contains(t, body, "a@b.c")
}

func TestLogout(t *testing.T) {
	env := pageSetup(t)

	rec := httptest.NewRecorder()
	env.auth.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
