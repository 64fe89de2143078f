// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the report endpoints (typically at "/api/reports").
// Every report is admin-only.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(tm.RequireSignedIn)
		ar.Use(tm.RequireRole("admin"))

		ar.Get("/donations", h.ServeDonations)
		ar.Get("/donations.csv", h.ServeDonationsCSV)
		ar.Get("/offers", h.ServeOffers)
		ar.Get("/volunteers", h.ServeVolunteers)
		ar.Get("/leaderboard", h.ServeLeaderboard)
	})

	return r
}
