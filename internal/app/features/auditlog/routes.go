// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Routes mounts the audit trail listing under the path where this router
// is mounted (typically "/auditlog" from bootstrap). Admin-only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdministrator))
		pr.Get("/", h.ServeList)
	})

	return r
}
