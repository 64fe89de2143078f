package donations

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type statusInput struct {
	Status   string `json:"status" validate:"required" label:"Status"`
	Override bool   `json:"override"`
}

// HandleUpdateStatus moves a donation along the status table.
// PUT /api/donations/update/{id} (admin)
//
// An illegal move is refused with 409 unless override is set; an
// override that was actually needed is audited with both statuses.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}
	var in statusInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	to, err := lifecycle.ParseDonationStatus(in.Status)
	if err != nil {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Status must be one of pending, approved, rejected, Completed.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "load donation failed", err)
		return
	}
	from := d.Status

	if err := lifecycle.CheckDonation(from, to, in.Override); err != nil {
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict,
			"Cannot move a donation from "+string(from)+" to "+string(to)+".")
		return
	}
	if from == to {
		apiresp.OK(w, map[string]any{"message": "Donation status unchanged", "donation": d})
		return
	}
	overridden := lifecycle.CheckDonation(from, to, false) != nil

	d, err = h.Donations.UpdateStatus(ctx, id, from, to)
	if err != nil {
		h.writeStoreError(w, r, "update donation status failed", err)
		return
	}

	var actor primitive.ObjectID
	if _, _, uid, ok := authz.UserCtx(r); ok {
		actor = uid
	}
	h.AuditLog.DonationStatusChanged(ctx, r, actor, id, string(from), string(to), overridden)
	if overridden {
		h.Metrics.StatusOverride()
		h.Log.Warn("donation status overridden",
			zap.String("donation_id", id.Hex()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("actor_id", actor.Hex()))
	}

	apiresp.OK(w, map[string]any{"message": "Donation status updated successfully", "donation": d})
}

// HandleDelete removes a donation.
// DELETE /api/donations/delete/{id} (admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "load donation failed", err)
		return
	}
	if err := h.Donations.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, "delete donation failed", err)
		return
	}

	var actor *primitive.ObjectID
	if _, _, uid, ok := authz.UserCtx(r); ok {
		actor = &uid
	}
	h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventDonationDeleted, actor, &id, map[string]string{
		"amount": strconv.FormatFloat(d.Amount, 'f', 2, 64),
		"status": string(d.Status),
	})

	apiresp.OK(w, map[string]any{"message": "Donation deleted successfully"})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, donationstore.ErrNotFound):
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Donation not found.")
	case errors.Is(err, donationstore.ErrStatusChanged):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Donation status changed; reload and try again.")
	default:
		h.ErrLog.LogServerError(w, r, msg, err, "")
	}
}
