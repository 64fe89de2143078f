package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
)

// ServeProfile returns the caller's account.
// GET /api/auth/profile
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, oid, ok := authz.UserCtx(r)
	if !ok {
		apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, "Not authorized, please sign in.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "User not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "")
		return
	}

	apiresp.OK(w, map[string]any{"user": u})
}
