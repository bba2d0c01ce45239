package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/middleware"
	"github.com/hus-nain/portfolio-go/internal/model"
)

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login handles POST /api/auth/login. Credentials are checked against the
// stored argon2id hash; a signed session token is returned on success.
// Repeated failures lock the account for a while.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"credentials": "Email and password are required",
		})
		return
	}

	if h.lockout != nil {
		if locked, remaining := h.lockout.IsAccountLocked(req.Email); locked {
			slog.Warn("login attempt on locked account", "email", req.Email)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Account temporarily locked. Try again in "+remaining.Round(time.Second).String(), nil)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.recordFailure(req.Email)
			WriteUnauthorized(w, "Invalid credentials")
			return
		}
		slog.Error("failed to load user for login", "error", err)
		WriteInternalError(w, "Something went wrong")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.recordFailure(req.Email)
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(strconv.FormatInt(user.ID, 10), user.Role)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		WriteInternalError(w, "Something went wrong")
		return
	}

	if h.lockout != nil {
		h.lockout.RecordSuccessfulLogin(req.Email)
	}
	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)

	WriteSuccess(w, LoginResponse{Token: token, User: user})
}

func (h *Handler) recordFailure(email string) {
	if h.lockout == nil {
		return
	}
	if locked, duration := h.lockout.RecordFailedAttempt(email); locked {
		slog.Warn("account locked after failed logins", "email", email, "duration", duration)
	}
}

// Me handles GET /api/auth/me. Requires the token guard.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, user)
}
