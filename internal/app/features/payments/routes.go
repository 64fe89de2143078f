// internal/app/features/payments/routes.go
package payments

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the payment endpoints (typically at "/api/payments").
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)

		pr.Post("/initiate", h.HandleInitiate)
		pr.Post("/verify", h.HandleVerify)
		pr.Post("/offline", h.HandleOffline)
	})
	return r
}
