// internal/app/features/volunteers/routes.go
package volunteers

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the volunteer endpoints (typically at "/api/volunteers").
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	// The giving form lists volunteers before anyone signs in.
	r.Get("/", h.ServeDirectory)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)

		pr.Get("/stats", h.ServeStats)
		pr.Get("/assigned/{volunteerId}", h.ServeAssigned)
		pr.Put("/confirm/{id}", h.HandleConfirmDonation)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(tm.RequireSignedIn)
		ar.Use(tm.RequireRole("admin"))

		ar.Post("/add", h.HandleAdd)
		ar.Put("/update/{id}", h.HandleUpdate)
		ar.Delete("/delete/{id}", h.HandleDelete)
	})

	return r
}
