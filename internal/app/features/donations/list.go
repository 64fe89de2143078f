package donations

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/features/shared"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
)

// ServeList returns every donation with donor and volunteer expanded.
// GET /api/donations (admin)
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := h.Donations.ListResolved(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list donations failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{"count": len(rows), "donations": rows})
}

// ServeMine returns the caller's own donations.
// GET /api/donations/donor
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apiresp.Fail(w, http.StatusUnauthorized, apiresp.CodeUnauthorized, "Not authorized, please sign in.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Donations.ListByDonor(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list donor donations failed", err, "")
		return
	}
	if len(rows) == 0 {
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "No donations found for this donor.")
		return
	}
	apiresp.OK(w, map[string]any{"count": len(rows), "donations": rows})
}

// ServeOne returns one donation.
// GET /api/donations/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Donations.GetResolved(ctx, id)
	if err != nil {
		if errors.Is(err, donationstore.ErrNotFound) {
			apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Donation not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load donation failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{"donation": d})
}
