// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/auth router. Admin user management is added to
// it by systemusers.Register.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Get("/profile", h.ServeProfile)
	})
	return r
}
