package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/middleware"
	"github.com/hus-nain/portfolio-go/internal/render"
	"github.com/hus-nain/portfolio-go/internal/store"
)

// AuthHandler handles the admin login and logout pages.
type AuthHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	tokens   *auth.TokenService
	lockout  *middleware.LoginProtection
	secure   bool
}

// NewAuthHandler creates a new AuthHandler. secure controls the cookie's
// Secure flag and should be true outside development.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, tokens *auth.TokenService, lockout *middleware.LoginProtection, secure bool) *AuthHandler {
	return &AuthHandler{
		queries:  store.New(db),
		renderer: renderer,
		tokens:   tokens,
		lockout:  lockout,
		secure:   secure,
	}
}

// LoginData is the view model for the login page.
type LoginData struct {
	Email string
}

// LoginForm renders the login page. The RedirectIfAuthenticated middleware
// has already sent authenticated visitors to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Sign in",
	}); err != nil {
		slog.Error("render error", "template", "auth/login", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Login handles the login form submission. On success the session token is
// written as a cookie and the browser is sent to the dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "", "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, r, email, "Email and password are required")
		return
	}

	if h.lockout != nil {
		if locked, _ := h.lockout.IsAccountLocked(email); locked {
			h.renderLoginError(w, r, email, "Account temporarily locked. Try again later.")
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("failed to load user for login", "error", err)
		}
		h.failLogin(w, r, email)
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		h.failLogin(w, r, email)
		return
	}

	token, err := h.tokens.Issue(strconv.FormatInt(user.ID, 10), user.Role)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		h.renderLoginError(w, r, email, "Something went wrong. Please try again.")
		return
	}

	if h.lockout != nil {
		h.lockout.RecordSuccessfulLogin(email)
	}
	slog.Info("admin signed in", "user_id", user.ID, "email", user.Email)

	middleware.SetTokenCookie(w, token, h.secure)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout clears the token cookie and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w, h.secure)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, email string) {
	if h.lockout != nil {
		if locked, duration := h.lockout.RecordFailedAttempt(email); locked {
			slog.Warn("account locked after failed logins", "email", email, "duration", duration)
		}
	}
	h.renderLoginError(w, r, email, "Invalid credentials")
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, email, message string) {
	w.WriteHeader(http.StatusUnauthorized)
	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title:     "Sign in",
		Flash:     message,
		FlashType: "error",
		Data:      LoginData{Email: email},
	}); err != nil {
		slog.Error("render error", "template", "auth/login", "error", err)
	}
}
