// internal/app/features/changerequests/list.go
package changerequests

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listResponse struct {
	Requests []models.ChangeRequest `json:"requests"`
	Total    int                    `json:"total"`
}

// ServeListPending handles GET /changerequests/: every pending request,
// newest first, for the review screen.
func (h *Handler) ServeListPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	crs, err := h.Requests.ListAll(ctx)
	if err != nil {
		h.Log.Error("list pending change requests failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if crs == nil {
		crs = []models.ChangeRequest{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Requests: crs, Total: len(crs)})
}

// ServeListByLead handles GET /changerequests/lead/{leadID}.
func (h *Handler) ServeListByLead(w http.ResponseWriter, r *http.Request) {
	leadID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "leadID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	crs, err := h.Requests.ListByLead(ctx, leadID)
	if err != nil {
		h.Log.Error("list change requests by lead failed", zap.Error(err), zap.String("lead_id", leadID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if crs == nil {
		crs = []models.ChangeRequest{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Requests: crs, Total: len(crs)})
}
