// internal/app/features/donations/routes.go
package donations

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the donation endpoints (typically at "/api/donations").
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	// Public giving form.
	r.Post("/create", h.HandleCreate)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)

		pr.Post("/createlogin", h.HandleCreateForUser)
		pr.Get("/donor", h.ServeMine)
		pr.Get("/receipt/{donationId}", h.ServeReceipt)
		pr.Get("/certificate/{donationId}", h.ServeCertificate)
		pr.Get("/{id}", h.ServeOne)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(tm.RequireSignedIn)
		ar.Use(tm.RequireRole("admin"))

		ar.Get("/", h.ServeList)
		ar.Put("/update/{id}", h.HandleUpdateStatus)
		ar.Delete("/delete/{id}", h.HandleDelete)
	})

	return r
}
