// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	metricsstore "github.com/dalemusser/donorhub/internal/app/store/metrics"
	"github.com/dalemusser/donorhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/authz"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeAdmin returns the dashboard headline (approved donations, paid
// offers) plus the supporting counts.
// GET /api/admin/dashboard
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	_, uname, _, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := reportqueries.Dashboard(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard stats failed", err, "")
		return
	}
	counts := metricsstore.FetchDashboardCounts(ctx, h.DB)

	h.Log.Debug("admin dashboard served", zap.String("user", uname))

	apiresp.OK(w, map[string]any{
		"totalDonations": stats.TotalDonations,
		"totalOffers":    stats.TotalOffers,
		"counts":         counts,
	})
}

// ServeLeaderboard ranks donors by stored name and volunteers by managed
// amount.
// GET /api/admin/leaderboard
func (h *Handler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	lb, err := reportqueries.GetAdminLeaderboard(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin leaderboard failed", err, "")
		return
	}
	apiresp.OK(w, map[string]any{
		"topDonors":     lb.TopDonors,
		"topVolunteers": lb.TopVolunteers,
	})
}
