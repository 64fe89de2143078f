package reports

import (
	"context"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
)

// ServeDonations returns the filtered donation report with totals and a
// monthly series.
// GET /api/reports/donations?startDate=&endDate=&paymentMethod=&status=
func (h *Handler) ServeDonations(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rep, err := reportqueries.Donations(ctx, h.DB, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "donation report failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{
		"totalDonations":   rep.TotalDonations,
		"totalAmount":      rep.TotalAmount,
		"donations":        rep.Donations,
		"monthlyDonations": rep.Monthly,
	})
}

// ServeOffers returns the filtered offer report. paymentMethod is ignored.
// GET /api/reports/offers?startDate=&endDate=&status=
func (h *Handler) ServeOffers(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rep, err := reportqueries.Offers(ctx, h.DB, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "offer report failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{
		"totalOffers":      rep.TotalOffers,
		"totalOfferAmount": rep.TotalOfferAmount,
		"offers":           rep.Offers,
		"monthlyOffers":    rep.Monthly,
	})
}

// ServeVolunteers returns per-volunteer donation totals.
// GET /api/reports/volunteers
func (h *Handler) ServeVolunteers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := reportqueries.VolunteerContributions(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "volunteer report failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{"volunteerContributions": rows})
}

// ServeLeaderboard returns the top donors and volunteers.
// GET /api/reports/leaderboard
func (h *Handler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	lb, err := reportqueries.GetLeaderboard(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "leaderboard failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{
		"topDonors":     lb.TopDonors,
		"topVolunteers": lb.TopVolunteers,
	})
}
