// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Routes wires the dashboard feature under whatever mount point the
// top-level router chooses (e.g., "/dashboard").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdministrator, models.RoleVolunteer))
		pr.Get("/", h.ServeDashboard)
	})

	return r
}
