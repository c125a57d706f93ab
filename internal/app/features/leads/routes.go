// internal/app/features/leads/routes.go
package leads

import (
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdministrator, models.RoleVolunteer))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{leadID}", h.ServeView)
		pr.Post("/{leadID}/save/{section}", h.HandleSave)
	})

	return r
}
