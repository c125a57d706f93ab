// internal/app/features/changerequests/routes.go
package changerequests

import (
	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Routes returns the review subrouter. Reviewing proposals is an
// administrator concern, so the whole group is admin-gated.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdministrator))

		pr.Get("/", h.ServeListPending)
		pr.Get("/lead/{leadID}", h.ServeListByLead)
		pr.Post("/{requestID}/approve", h.HandleApprove)
		pr.Post("/{requestID}/reject", h.HandleReject)
		pr.Post("/bulk/approve", h.HandleBulkApprove)
		pr.Post("/bulk/reject", h.HandleBulkReject)
	})

	return r
}
