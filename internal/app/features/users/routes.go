// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Routes returns the staff account subrouter. Account management is
// admin-only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdministrator))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{userID}", h.HandleUpdate)
		pr.Post("/{userID}/password", h.HandleSetPassword)
		pr.Delete("/{userID}", h.HandleDelete)
	})

	return r
}
