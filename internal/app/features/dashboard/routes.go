// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the admin dashboard under whatever mount point the
// top-level router chooses (e.g., "/api/admin").
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(tm.RequireSignedIn)
		ar.Use(tm.RequireRole("admin"))

		ar.Get("/dashboard", h.ServeAdmin)
		ar.Get("/leaderboard", h.ServeLeaderboard)
	})

	return r
}
