// Package middleware provides HTTP middleware for authentication,
// rate limiting, CORS, and security headers.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/model"
	"github.com/hus-nain/portfolio-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key for the authenticated user.
const ContextKeyUser ContextKey = "user"

// Token transport names. API clients send the token in the TokenHeader
// request header; the admin pages carry it in the TokenCookie cookie.
const (
	TokenHeader = "x-auth-token"
	TokenCookie = "token"
)

// LoginPath is where unauthenticated page requests are redirected.
const LoginPath = "/admin/login"

// TokenFromHeader extracts the session token from an API request. The
// x-auth-token header wins; an Authorization: Bearer header is accepted as
// a fallback for generic HTTP clients.
func TokenFromHeader(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// TokenFromCookie extracts the session token from the admin page cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// resolveUser verifies the token and loads the user it names. A token whose
// subject no longer exists in the database is treated as invalid.
func resolveUser(r *http.Request, tokens *auth.TokenService, queries *store.Queries, token string) (model.User, error) {
	claims, err := tokens.Verify(token)
	if err != nil {
		return model.User{}, err
	}

	userID, err := strconv.ParseInt(claims.SubjectID(), 10, 64)
	if err != nil {
		return model.User{}, auth.ErrTokenInvalid
	}

	user, err := queries.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, auth.ErrTokenInvalid
		}
		return model.User{}, err
	}
	return user, nil
}

// RequireToken creates middleware that guards API routes. It expects a valid
// session token in the x-auth-token header (or an Authorization: Bearer
// header) and loads the authenticated user into the request context.
func RequireToken(tokens *auth.TokenService, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromHeader(r)
			if token == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "No token, authorization denied", nil)
				return
			}

			user, err := resolveUser(r, tokens, queries, token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Token has expired", nil)
				case errors.Is(err, auth.ErrTokenInvalid):
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Token is not valid", nil)
				default:
					slog.Error("failed to resolve token user", "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePage creates middleware that guards admin HTML routes. A missing or
// invalid token cookie redirects to the login page instead of returning JSON.
func RequirePage(tokens *auth.TokenService, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromCookie(r)
			if token == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			user, err := resolveUser(r, tokens, queries, token)
			if err != nil {
				// Stale cookie: clear it so the browser stops resending it.
				ClearTokenCookie(w, r.TLS != nil)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated sends already-authenticated visitors of the login
// page straight to the admin dashboard.
func RedirectIfAuthenticated(tokens *auth.TokenService, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromCookie(r); token != "" {
				if _, err := resolveUser(r, tokens, queries, token); err == nil {
					http.Redirect(w, r, "/admin", http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetTokenCookie writes the session token cookie for admin page navigation.
func SetTokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie expires the session token cookie.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the authenticated user's ID from context, or 0 if not
// found. Safe to use in logging where a zero value is acceptable.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}
