// internal/app/features/leads/view.go
package leads

import (
	"context"
	"errors"
	"net/http"

	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/app/system/authz"
	"github.com/madrichim/leadhub/internal/app/system/changeflow"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type viewResponse struct {
	Lead *models.Lead `json:"lead"`
	// Pending holds one entry per field under review, display-formatted.
	Pending []changeflow.FieldPending `json:"pending"`
	// LockedFields lists fields the caller may not edit right now.
	// Empty for administrators.
	LockedFields []string `json:"locked_fields"`
}

// ServeView handles GET /leads/{leadID}: the lead, its pending change
// requests, and which fields the caller is locked out of.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "leadID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	l, err := h.Leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "lead not found")
			return
		}
		h.Log.Error("load lead failed", zap.Error(err), zap.String("lead_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	pending, err := h.Requests.ListByLead(ctx, id)
	if err != nil {
		h.Log.Error("load pending change requests failed", zap.Error(err), zap.String("lead_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	engineRole, _ := changeflow.RoleFromString(role)
	view := changeflow.NewPendingView(engineRole, pending)

	details := make([]changeflow.FieldPending, 0, len(pending))
	var locked []string
	for _, cr := range pending {
		if fp, ok := view.Detail(cr.FieldChanged); ok {
			details = append(details, fp)
		}
		if !view.Editable(cr.FieldChanged) {
			locked = append(locked, cr.FieldChanged)
		}
	}

	respond.JSON(w, http.StatusOK, viewResponse{
		Lead:         l,
		Pending:      details,
		LockedFields: locked,
	})
}
