// internal/app/features/leadimport/routes.go
package leadimport

import (
	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Routes returns the import subrouter, mounted at /leads/import.
// Importing writes leads in bulk, so only administrators may use it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdministrator))
		pr.Post("/", h.HandleImport)
	})

	return r
}
