package offers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createInput struct {
	Amount      float64 `json:"amount" validate:"required,gt=0" label:"Amount"`
	Cause       string  `json:"cause" validate:"required,max=500" label:"Cause"`
	WhatsApp    string  `json:"whatsapp" validate:"required,max=30" label:"WhatsApp"`
	VolunteerID string  `json:"volunteerId" validate:"required,objectid" label:"Volunteer"`
}

// HandleCreate records an unpaid pledge by the caller.
// POST /api/offers/create
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, "Not authorized, please sign in.")
		return
	}
	var in createInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	cause := htmlsanitize.StripTags(in.Cause)
	whatsapp := normalize.Phone(in.WhatsApp)
	if cause == "" || whatsapp == "" {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Cause and WhatsApp are required.")
		return
	}
	vid, _ := primitive.ObjectIDFromHex(in.VolunteerID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.Volunteers.Exists(ctx, vid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check volunteer failed", err, "")
		return
	}
	if !exists {
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Volunteer not found.")
		return
	}

	o, err := h.Offers.Create(ctx, models.Offer{
		DonorID:     uid,
		Amount:      in.Amount,
		Cause:       cause,
		WhatsApp:    whatsapp,
		VolunteerID: vid,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create offer failed", err, "")
		return
	}

	h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventOfferCreated, &uid, &o.ID, map[string]string{
		"amount":       strconv.FormatFloat(o.Amount, 'f', 2, 64),
		"volunteer_id": vid.Hex(),
	})

	apiresp.Created(w, map[string]any{"message": "Offer created successfully", "offer": o})
}

// ServeList returns every offer with donor and volunteer expanded.
// GET /api/offers
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := h.Offers.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list offers failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{"count": len(rows), "offers": rows})
}

// HandleMarkPaid converts an unpaid offer into an approved by_hand
// donation. Repeating the call, or racing it, yields 409 and no second
// donation.
// PUT /api/offers/mark-paid/{id}
func (h *Handler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	conv, err := h.Offers.MarkPaid(ctx, id, h.Log)
	if err != nil {
		h.writeStoreError(w, r, "mark offer paid failed", err)
		return
	}

	var actor primitive.ObjectID
	if _, _, uid, ok := authz.UserCtx(r); ok {
		actor = uid
	}
	h.Metrics.OfferConverted()
	h.Metrics.DonationCreated(lifecycle.PaymentByHand)
	h.AuditLog.OfferConverted(ctx, r, actor, id, conv.Donation.ID)
	h.Log.Info("offer converted",
		zap.String("offer_id", id.Hex()),
		zap.String("donation_id", conv.Donation.ID.Hex()))

	apiresp.OK(w, map[string]any{
		"message":  "Offer marked as paid and converted to donation",
		"offer":    conv.Offer,
		"donation": conv.Donation,
	})
}

// HandleConfirm marks an offer Completed.
// PUT /api/offers/confirm/{id}
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	before, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "load offer failed", err)
		return
	}
	o, err := h.Offers.Confirm(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, "confirm offer failed", err)
		return
	}

	if before.Status != o.Status {
		var actor *primitive.ObjectID
		if _, _, uid, ok := authz.UserCtx(r); ok {
			actor = &uid
		}
		h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventOfferConfirmed, actor, &id,
			map[string]string{"from": string(before.Status), "to": string(o.Status)})
	}

	apiresp.OK(w, map[string]any{"message": "Offer marked as completed", "offer": o})
}

// HandleDelete removes an offer. A donation it produced stays.
// DELETE /api/offers/delete/{id} (admin)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Offers.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, "delete offer failed", err)
		return
	}

	var actor *primitive.ObjectID
	if _, _, uid, ok := authz.UserCtx(r); ok {
		actor = &uid
	}
	h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventOfferDeleted, actor, &id, nil)

	apiresp.OK(w, map[string]any{"message": "Offer deleted successfully"})
}
