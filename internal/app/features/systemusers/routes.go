// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Register adds the admin user-management routes to r, which is the
// /api/auth router built by login.Routes.
//
// Example from bootstrap:
//
//	ar := login.Routes(loginH, tm)
//	systemusers.Register(ar, usersH, tm)
//	r.Mount("/api/auth", ar)
func Register(r chi.Router, h *Handler, tm *auth.TokenManager) {
	r.Group(func(pr chi.Router) {
		// Only signed-in admins manage accounts.
		pr.Use(tm.RequireSignedIn)
		pr.Use(tm.RequireRole("admin"))

		pr.Get("/users", h.ServeList)
		pr.Get("/volunteers", h.ServeVolunteers)
		pr.Put("/users/{id}", h.HandleUpdate)
		pr.Delete("/users/{id}", h.HandleDelete)
	})
}
