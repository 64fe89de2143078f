package volunteers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addInput struct {
	Name  string `json:"name" validate:"required,max=200" label:"Name"`
	Phone string `json:"phone" validate:"required,max=30" label:"Phone"`
	Email string `json:"email" validate:"required,email,max=254" label:"Email"`
}

type updateInput struct {
	Name  string `json:"name" validate:"max=200" label:"Name"`
	Phone string `json:"phone" validate:"max=30" label:"Phone"`
	Email string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
}

// ServeDirectory lists volunteer ids and names.
// GET /api/volunteers
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	dir, err := h.Volunteers.Directory(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list volunteers failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{"count": len(dir), "volunteers": dir})
}

// HandleAdd registers a volunteer.
// POST /api/volunteers/add (admin)
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var in addInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	name := htmlsanitize.StripTags(in.Name)
	phone := normalize.Phone(in.Phone)
	if name == "" || phone == "" {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Name and phone are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Volunteers.Create(ctx, models.Volunteer{Name: name, Phone: phone, Email: in.Email})
	if err != nil {
		h.writeStoreError(w, r, "create volunteer failed", err)
		return
	}

	h.AuditLog.Record(ctx, r, audit.CategoryAdmin, audit.EventVolunteerCreated, actorID(r), &v.ID,
		map[string]string{"name": v.Name})

	apiresp.Created(w, map[string]any{"message": "Volunteer added successfully", "volunteer": v})
}

// HandleUpdate changes the fields that are present.
// PUT /api/volunteers/update/{id} (admin)
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	var in updateInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Volunteers.Update(ctx, id, models.Volunteer{
		Name:  htmlsanitize.StripTags(in.Name),
		Phone: in.Phone,
		Email: in.Email,
	})
	if err != nil {
		h.writeStoreError(w, r, "update volunteer failed", err)
		return
	}

	h.AuditLog.Record(ctx, r, audit.CategoryAdmin, audit.EventVolunteerUpdated, actorID(r), &v.ID, nil)

	apiresp.OK(w, map[string]any{"message": "Volunteer updated successfully", "volunteer": v})
}

// HandleDelete removes a volunteer. Donations and offers that point at it
// keep the reference.
// DELETE /api/volunteers/delete/{id} (admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Volunteers.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, "delete volunteer failed", err)
		return
	}

	h.AuditLog.Record(ctx, r, audit.CategoryAdmin, audit.EventVolunteerDeleted, actorID(r), &id, nil)

	apiresp.OK(w, map[string]any{"message": "Volunteer deleted successfully"})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, volunteerstore.ErrNotFound):
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Volunteer not found.")
	case errors.Is(err, volunteerstore.ErrDuplicateEmail):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "A volunteer with this email already exists.")
	case errors.Is(err, volunteerstore.ErrDuplicatePhone):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "A volunteer with this phone number already exists.")
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
