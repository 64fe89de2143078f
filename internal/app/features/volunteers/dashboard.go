package volunteers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	"github.com/dalemusser/donorhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeStats returns the volunteer dashboard.
// GET /api/volunteers/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats, err := reportqueries.GetVolunteerStats(ctx, h.DB, time.Now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "volunteer stats failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{
		"assignedDonations": stats.AssignedDonations,
		"pendingOffers":     stats.PendingOffers,
		"donationTrends":    stats.DonationTrends,
		"offerBreakdown":    stats.OfferBreakdown,
		"offersVsDonations": stats.OffersVsDonations,
	})
}

// ServeAssigned lists the donations attributed to a volunteer.
// GET /api/volunteers/assigned/{volunteerId}
func (h *Handler) ServeAssigned(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "volunteerId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Donations.ListByVolunteer(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list assigned donations failed", err, "")
		return
	}
	if len(rows) == 0 {
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "No assigned donations found.")
		return
	}
	apiresp.OK(w, map[string]any{"count": len(rows), "donations": rows})
}

// HandleConfirmDonation marks a donation Completed. Only an approved
// donation can be confirmed; confirming twice is a no-op.
// PUT /api/volunteers/confirm/{id}
func (h *Handler) HandleConfirmDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		h.writeDonationError(w, r, err)
		return
	}
	from := d.Status
	if err := lifecycle.CheckDonation(from, lifecycle.DonationCompleted, false); err != nil {
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict,
			"Only an approved donation can be confirmed; this one is "+string(from)+".")
		return
	}
	if from != lifecycle.DonationCompleted {
		d, err = h.Donations.UpdateStatus(ctx, id, from, lifecycle.DonationCompleted)
		if err != nil {
			h.writeDonationError(w, r, err)
			return
		}
		var actor primitive.ObjectID
		if a := actorID(r); a != nil {
			actor = *a
		}
		h.AuditLog.DonationStatusChanged(ctx, r, actor, id, string(from), string(d.Status), false)
	}

	apiresp.OK(w, map[string]any{"message": "Donation marked as completed", "donation": d})
}

func (h *Handler) writeDonationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, donationstore.ErrNotFound):
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Donation not found.")
	case errors.Is(err, donationstore.ErrStatusChanged):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Donation status changed; reload and try again.")
	default:
		h.ErrLog.LogServerError(w, r, "confirm donation failed", err, "")
	}
}
