package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cardapio-go/internal/auth"
	"cardapio-go/internal/middleware"
	"cardapio-go/internal/store"
)

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the current session for the client.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	IsAdmin       bool   `json:"is_admin"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required", nil)
		return
	}

	if locked, remaining := h.login.IsAccountLocked(email); locked {
		slog.Warn("login attempt on locked account", "email", email, "remaining", remaining)
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("Account locked. Try again in %s", remaining.Round(time.Second)), nil)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		WriteInternalError(w, "Login failed")
		return
	}

	// Check the password even for unknown users so both paths cost the same.
	hash := "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	if err == nil {
		hash = user.PasswordHash
	}
	ok, checkErr := auth.CheckPassword(req.Password, hash)
	if checkErr != nil || !ok || errors.Is(err, store.ErrUserNotFound) {
		if locked, duration := h.login.RecordFailedAttempt(email); locked {
			slog.Warn("account locked after failed logins", "email", email, "duration", duration)
		} else {
			slog.Warn("failed login attempt", "email", email, "remote_addr", r.RemoteAddr)
		}
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	h.login.RecordSuccessfulLogin(email)

	// Rotate the session token on privilege change.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Login failed")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	if err := h.users.TouchLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}

	slog.Info("login", "user_id", user.ID, "email", user.Email)
	WriteSuccess(w, SessionResponse{
		Authenticated: true,
		IsAdmin:       user.IsAdmin(),
		Email:         user.Email,
		Name:          user.Name,
	}, nil)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Logout failed")
		return
	}

	if userID != 0 {
		slog.Info("logout", "user_id", userID)
	}
	WriteSuccess(w, SessionResponse{}, nil)
}

// Session handles GET /api/v1/auth/session. It reports the capability of
// the current session; admin status is derived from the stored role on
// every call, never cached client-side state.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteSuccess(w, SessionResponse{}, nil)
		return
	}

	WriteSuccess(w, SessionResponse{
		Authenticated: true,
		IsAdmin:       user.IsAdmin(),
		Email:         user.Email,
		Name:          user.Name,
	}, nil)
}
