package donations

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createInput struct {
	DonorName     string  `json:"donorName" validate:"required,max=200" label:"Donor name"`
	Amount        float64 `json:"amount" validate:"required,gt=0" label:"Amount"`
	Cause         string  `json:"cause" validate:"required,max=500" label:"Cause"`
	WhatsApp      string  `json:"whatsapp" validate:"max=30" label:"WhatsApp"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,paymentmethod" label:"Payment method"`
	TransactionID string  `json:"transactionId" validate:"max=200" label:"Transaction ID"`
	VolunteerID   string  `json:"volunteerId" validate:"omitempty,objectid" label:"Volunteer"`
	VolunteerName string  `json:"volunteerName" validate:"max=200" label:"Volunteer"`
}

// HandleCreate records a donation from the public form.
// POST /api/donations/create
//
// WhatsApp is required here because the donor has no account to reach.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	if normalize.Phone(in.WhatsApp) == "" {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "WhatsApp is required.")
		return
	}
	h.create(w, r, in, nil)
}

// HandleCreateForUser records a donation owned by the caller.
// POST /api/donations/createlogin
func (h *Handler) HandleCreateForUser(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, "Not authorized, please sign in.")
		return
	}
	var in createInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	h.create(w, r, in, &uid)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, in createInput, donor *primitive.ObjectID) {
	donorName := htmlsanitize.StripTags(in.DonorName)
	cause := htmlsanitize.StripTags(in.Cause)
	if donorName == "" || cause == "" {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Donor name and cause are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	vol, err := h.resolveVolunteer(ctx, in.VolunteerID, in.VolunteerName)
	if err != nil {
		if errors.Is(err, volunteerstore.ErrNotFound) {
			apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Volunteer not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "resolve volunteer failed", err, "")
		return
	}

	d, err := h.Donations.Create(ctx, models.Donation{
		DonorID:       donor,
		DonorName:     donorName,
		Amount:        in.Amount,
		Cause:         cause,
		WhatsApp:      normalize.Phone(in.WhatsApp),
		PaymentMethod: in.PaymentMethod,
		TransactionID: htmlsanitize.StripTags(in.TransactionID),
		VolunteerID:   vol,
	})
	if err != nil {
		if errors.Is(err, donationstore.ErrDuplicateTransaction) {
			apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "This payment has already been recorded.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create donation failed", err, "")
		return
	}

	h.Metrics.DonationCreated(d.PaymentMethod)
	h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventDonationCreated, donor, &d.ID, map[string]string{
		"amount":         strconv.FormatFloat(d.Amount, 'f', 2, 64),
		"payment_method": d.PaymentMethod,
		"status":         string(d.Status),
	})
	h.Log.Info("donation created",
		zap.String("donation_id", d.ID.Hex()),
		zap.String("payment_method", d.PaymentMethod),
		zap.String("status", string(d.Status)))

	apiresp.Created(w, map[string]any{
		"message":  "Donation created successfully",
		"donation": d,
	})
}
