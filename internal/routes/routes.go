package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/motofleet/admin-api/internal/handlers"
)

// Register wires the admin surface: a single POST endpoint guarded by
// bearer auth, a database-backed role check, and a per-admin rate
// limit, applied in that order.
func Register(
	router chi.Router,
	adminHandler *handlers.AdminHandler,
	authenticate func(http.Handler) http.Handler,
	rateLimit func(http.Handler) http.Handler,
	requireRole func(http.Handler) http.Handler,
) {
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(rateLimit)
		r.Use(requireRole)

		r.Post("/admin", adminHandler.HandleAction)
	})

	// Preflight terminates in the CORS middleware; this route only
	// exists so chi does not answer OPTIONS with 405.
	router.Options("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
