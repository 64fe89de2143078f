package payments

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/htmlsanitize"
	gateway "github.com/dalemusser/donorhub/internal/app/system/payments"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type initiateInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0" label:"Amount"`
	Cause  string  `json:"cause" validate:"required,max=500" label:"Cause"`
}

type verifyInput struct {
	OrderID     string  `json:"orderId" validate:"required,max=100" label:"Order ID"`
	PaymentID   string  `json:"paymentId" validate:"required,max=100" label:"Payment ID"`
	Signature   string  `json:"signature" validate:"required,max=200" label:"Signature"`
	Amount      float64 `json:"amount" validate:"omitempty,gt=0" label:"Amount"`
	Cause       string  `json:"cause" validate:"required,max=500" label:"Cause"`
	DonorName   string  `json:"donorName" validate:"max=200" label:"Donor name"`
	VolunteerID string  `json:"volunteerId" validate:"omitempty,objectid" label:"Volunteer"`
}

// HandleInitiate creates a gateway order for the checkout widget.
// POST /api/payments/initiate
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	if h.Gateway == nil {
		apiresp.Fail(w, http.StatusServiceUnavailable, apiresp.CodeInternal, "Online payments are not available.")
		return
	}
	var in initiateInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	order, err := h.Gateway.CreateOrder(ctx, in.Amount, h.Currency, map[string]string{
		"cause":   htmlsanitize.StripTags(in.Cause),
		"user_id": caller.id.Hex(),
	})
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidAmount) {
			apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Amount must be greater than zero.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create gateway order failed", err, "")
		return
	}

	apiresp.OK(w, map[string]any{"order": order, "keyId": h.Gateway.KeyID()})
}

// HandleVerify checks a completed checkout and records the donation.
// POST /api/payments/verify
//
// A gateway donation is settled, so it is stored approved with the
// payment id as its transaction id. The amount is the one the gateway
// captured; a client amount, when sent, must agree with it.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if h.Gateway == nil {
		apiresp.Fail(w, http.StatusServiceUnavailable, apiresp.CodeInternal, "Online payments are not available.")
		return
	}
	var in verifyInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reject := func(reason string) {
		h.AuditLog.PaymentRejected(ctx, r, &caller.id, in.OrderID, in.PaymentID, reason)
		h.Log.Warn("payment rejected",
			zap.String("reason", reason),
			zap.String("order_id", in.OrderID),
			zap.String("payment_id", in.PaymentID),
			zap.String("user_id", caller.id.Hex()))
	}

	if err := h.Gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature); err != nil {
		if errors.Is(err, gateway.ErrBadSignature) {
			reject("signature mismatch")
			apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Payment verification failed.")
			return
		}
		h.ErrLog.LogServerError(w, r, "verify payment failed", err, "")
		return
	}

	payment, err := h.Gateway.FetchPayment(ctx, in.PaymentID)
	if err == nil {
		err = gateway.CheckPayment(payment, in.OrderID, h.Currency)
	}
	switch {
	case err == nil:
	case errors.Is(err, gateway.ErrNotCaptured):
		reject("payment not captured")
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeInvalidState, "Payment has not been captured yet.")
		return
	case errors.Is(err, gateway.ErrPaymentNotFound),
		errors.Is(err, gateway.ErrPaymentMismatch),
		errors.Is(err, gateway.ErrInvalidAmount):
		reject(err.Error())
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Payment verification failed.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "fetch payment failed", err, "")
		return
	}
	if in.Amount > 0 && gateway.ToMinorUnits(in.Amount) != payment.Amount {
		reject("amount mismatch")
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Amount does not match the payment.")
		return
	}

	vol, ok := h.volunteer(ctx, w, r, in.VolunteerID)
	if !ok {
		return
	}
	donorName := htmlsanitize.StripTags(in.DonorName)
	if donorName == "" {
		donorName = caller.name
	}

	d, err := h.Donations.Create(ctx, models.Donation{
		DonorID:       &caller.id,
		DonorName:     donorName,
		Amount:        payment.Major(),
		Cause:         htmlsanitize.StripTags(in.Cause),
		PaymentMethod: lifecycle.PaymentRazorpay,
		TransactionID: payment.ID,
		VolunteerID:   vol,
	})
	if err != nil {
		if errors.Is(err, donationstore.ErrDuplicateTransaction) {
			reject("payment already recorded")
			apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "This payment has already been recorded.")
			return
		}
		h.ErrLog.LogServerError(w, r, "record gateway donation failed", err, "")
		return
	}

	h.Metrics.DonationCreated(d.PaymentMethod)
	h.AuditLog.Record(ctx, r, audit.CategoryLedger, audit.EventPaymentVerified, &caller.id, &d.ID, map[string]string{
		"order_id":   in.OrderID,
		"payment_id": payment.ID,
		"amount":     strconv.FormatFloat(d.Amount, 'f', 2, 64),
	})

	apiresp.Created(w, map[string]any{"message": "Payment verified successfully", "donation": d})
}

func (h *Handler) volunteer(ctx context.Context, w http.ResponseWriter, r *http.Request, hex string) (*primitive.ObjectID, bool) {
	if hex == "" {
		return nil, true
	}
	id, err := shared.OptionalID(hex)
	if err != nil {
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Invalid volunteer id.")
		return nil, false
	}
	exists, err := h.Volunteers.Exists(ctx, *id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check volunteer failed", err, "")
		return nil, false
	}
	if !exists {
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Volunteer not found.")
		return nil, false
	}
	return id, true
}
