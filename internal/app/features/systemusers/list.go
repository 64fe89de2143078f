package systemusers

import (
	"context"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
)

// ServeList handles GET /api/auth/users.
//
// Every account, sorted by name. Password hashes never leave the store
// layer's JSON tags.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	apiresp.OK(w, map[string]any{"count": len(users), "users": users})
}

// ServeVolunteers handles GET /api/auth/volunteers: accounts holding the
// volunteer role. The volunteer registry itself lives under /api/volunteers.
func (h *Handler) ServeVolunteers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users, err := h.Users.ListByRole(ctx, models.RoleVolunteer)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list volunteer users failed", err, "")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	apiresp.OK(w, map[string]any{"count": len(users), "users": users})
}
