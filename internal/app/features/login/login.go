package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type loginInput struct {
	Email    string `json:"email" validate:"required,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=72" label:"Password"`
}

const badCredentials = "Invalid email or password."

// HandleLogin checks credentials and issues a bearer token.
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	email := normalize.Email(in.Email)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailed(ctx, r, nil, email, audit.EventLoginFailedRateLimit, reason)
			h.Metrics.LoginFailed("rate_limited")
			apiresp.Fail(w, http.StatusTooManyRequests, apiresp.CodeRateLimited, reason)
			return
		}
	}

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.AuditLog.LoginFailed(ctx, r, nil, email, audit.EventLoginFailedUserNotFound, "user not found")
			h.Metrics.LoginFailed("user_not_found")
			apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, badCredentials)
			return
		}
		h.ErrLog.LogServerError(w, r, "load user for login failed", err, "")
		return
	}

	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		h.AuditLog.LoginFailed(ctx, r, &u.ID, email, audit.EventLoginFailedWrongPassword, "wrong password")
		h.Metrics.LoginFailed("wrong_password")
		apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, badCredentials)
		return
	}

	token, exp, err := h.Tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue token failed", err, "")
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email)
	h.Log.Debug("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	apiresp.OK(w, map[string]any{
		"message":   "Login successful",
		"token":     token,
		"expiresAt": exp,
		"user":      summarize(*u),
	})
}
