package payments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type offlineInput struct {
	Amount        float64 `json:"amount" validate:"required,gt=0" label:"Amount"`
	Cause         string  `json:"cause" validate:"required,max=500" label:"Cause"`
	VolunteerID   string  `json:"volunteerId" validate:"required,objectid" label:"Volunteer"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,paymentmethod" label:"Payment method"`
	TransactionID string  `json:"transactionId" validate:"max=200" label:"Transaction ID"`
}

// HandleOffline records a GPay, cash, bank or by-hand payment awaiting
// admin approval.
// POST /api/payments/offline
func (h *Handler) HandleOffline(w http.ResponseWriter, r *http.Request) {
	var in offlineInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	if in.PaymentMethod == lifecycle.PaymentRazorpay {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Use checkout verification for Razorpay payments.")
		return
	}
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	vol, ok := h.volunteer(ctx, w, r, in.VolunteerID)
	if !ok {
		return
	}

	d, err := h.Donations.Create(ctx, models.Donation{
		DonorID:       &caller.id,
		DonorName:     caller.name,
		Amount:        in.Amount,
		Cause:         htmlsanitize.StripTags(in.Cause),
		PaymentMethod: in.PaymentMethod,
		TransactionID: htmlsanitize.StripTags(in.TransactionID),
		Status:        lifecycle.DonationPending,
		VolunteerID:   vol,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "record offline payment failed", err, "")
		return
	}

	h.Metrics.DonationCreated(d.PaymentMethod)
	h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventDonationCreated, &caller.id, &d.ID, map[string]string{
		"amount":         strconv.FormatFloat(d.Amount, 'f', 2, 64),
		"payment_method": d.PaymentMethod,
		"status":         string(d.Status),
	})

	apiresp.Created(w, map[string]any{
		"message":  "Offline payment recorded, awaiting admin approval",
		"donation": d,
	})
}

type caller struct {
	id   primitive.ObjectID
	name string
}

func callerOf(w http.ResponseWriter, r *http.Request) (caller, bool) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, "Not authorized, please sign in.")
		return caller{}, false
	}
	if name == "" {
		name = "Anonymous"
	}
	return caller{id: uid, name: name}, true
}
