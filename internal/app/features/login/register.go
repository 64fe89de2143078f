package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type registerInput struct {
	Name     string `json:"name" validate:"required,max=200" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72" label:"Password"`
	Role     string `json:"role" validate:"omitempty,role" label:"Role"`
	WhatsApp string `json:"whatsapp" validate:"max=30" label:"WhatsApp"`
}

// HandleRegister creates an account.
// POST /api/auth/register
//
// Anyone may register as a donor or volunteer. Registering an admin needs
// an admin caller.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}

	role := normalize.Role(in.Role)
	if role == "" {
		role = models.RoleDonor
	}
	var actor *primitive.ObjectID
	if _, _, oid, ok := authz.UserCtx(r); ok {
		actor = &oid
	}
	if role == models.RoleAdmin && !authz.IsAdmin(r) {
		apiresp.Fail(w, http.StatusForbidden, apiresp.CodeForbidden, "Only an admin can create admin accounts.")
		return
	}

	name := htmlsanitize.StripTags(in.Name)
	if name == "" {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Name is required.")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Password is too long.")
			return
		}
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         name,
		Email:        in.Email,
		PasswordHash: hash,
		WhatsApp:     normalize.Phone(in.WhatsApp),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "User already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user failed", err, "")
		return
	}

	h.AuditLog.UserRegistered(ctx, r, actor, u.ID, u.Role)

	apiresp.Created(w, map[string]any{
		"message": "User registered successfully",
		"user":    summarize(u),
	})
}

func summarize(u models.User) userSummary {
	return userSummary{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		WhatsApp: u.WhatsApp,
	}
}
