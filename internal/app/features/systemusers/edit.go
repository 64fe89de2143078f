package systemusers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateInput struct {
	Name  *string `json:"name" validate:"omitempty,max=200" label:"Name"`
	Email *string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Role  *string `json:"role" validate:"omitempty,role" label:"Role"`
}

// HandleUpdate handles PUT /api/auth/users/{id}.
//
// Absent fields are left alone. The last admin cannot be demoted.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	var in updateInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}

	upd := userstore.Update{Email: in.Email}
	if in.Name != nil {
		n := htmlsanitize.StripTags(*in.Name)
		if n == "" {
			apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Name cannot be empty.")
			return
		}
		upd.Name = &n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "load user failed", err)
		return
	}

	if in.Role != nil {
		role := normalize.Role(*in.Role)
		if current.Role == models.RoleAdmin && role != models.RoleAdmin {
			if last, err := h.isLastAdmin(ctx); err != nil {
				h.ErrLog.LogServerError(w, r, "count admins failed", err, "")
				return
			} else if last {
				apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Cannot demote the last admin.")
				return
			}
		}
		upd.Role = &role
	}

	u, err := h.Users.Update(ctx, id, upd)
	if err != nil {
		h.writeStoreError(w, r, "update user failed", err)
		return
	}

	details := map[string]string{"role": u.Role}
	if current.Role != u.Role {
		details["previous_role"] = current.Role
	}
	h.AuditLog.Record(ctx, r, audit.CategoryAdmin, audit.EventUserUpdated, actorID(r), &u.ID, details)

	apiresp.OK(w, map[string]any{"message": "User updated successfully", "user": u})
}

// HandleDelete handles DELETE /api/auth/users/{id}.
//
// Guards: an admin cannot delete their own account, and the last admin
// cannot be deleted. Donations that reference the user are kept and
// resolve with no donor.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	if actor := actorID(r); actor != nil && *actor == id {
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "You cannot delete your own account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "load user failed", err)
		return
	}
	if u.Role == models.RoleAdmin {
		if last, err := h.isLastAdmin(ctx); err != nil {
			h.ErrLog.LogServerError(w, r, "count admins failed", err, "")
			return
		} else if last {
			apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Cannot delete the last admin.")
			return
		}
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, "delete user failed", err)
		return
	}

	h.AuditLog.Record(ctx, r, audit.CategoryAdmin, audit.EventUserDeleted, actorID(r), &id,
		map[string]string{"email": u.Email, "role": u.Role})

	apiresp.OK(w, map[string]any{"message": "User deleted successfully"})
}

func (h *Handler) isLastAdmin(ctx context.Context) (bool, error) {
	n, err := h.Users.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return n <= 1, nil
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "User not found.")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "A user with this email already exists.")
	default:
		h.ErrLog.LogServerError(w, r, msg, err, "")
	}
}

func actorID(r *http.Request) *primitive.ObjectID {
	if _, _, oid, ok := authz.UserCtx(r); ok {
		return &oid
	}
	return nil
}
