// internal/app/features/offers/routes.go
package offers

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the offer endpoints (typically at "/api/offers").
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)

		pr.Post("/create", h.HandleCreate)
		pr.Get("/", h.ServeList)
		pr.Put("/mark-paid/{id}", h.HandleMarkPaid)
		pr.Put("/confirm/{id}", h.HandleConfirm)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(tm.RequireSignedIn)
		ar.Use(tm.RequireRole("admin"))

		ar.Delete("/delete/{id}", h.HandleDelete)
	})

	return r
}
