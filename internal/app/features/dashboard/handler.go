// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Handler serves the aggregate counts behind the dashboard charts.
type Handler struct {
	Leads *leadstore.Store
	Log   *zap.Logger
}

func NewHandler(leads *leadstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Leads: leads, Log: logger}
}

type dashboardResponse struct {
	TotalLeads int64            `json:"total_leads"`
	ByCohort   map[string]int64 `json:"by_cohort"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByTrack    map[string]int64 `json:"by_track"`
}

// ServeDashboard handles GET /dashboard/: lead totals grouped by cohort
// label, current status, and recruitment track.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Leads.Count(ctx, bson.M{})
	if err != nil {
		h.Log.Error("count leads failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	byCohort, err := h.Leads.CountByValue(ctx, models.FieldRecruitmentCohort)
	if err != nil {
		h.Log.Error("count by cohort failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	byStatus, err := h.Leads.CountByValue(ctx, models.FieldCurrentStatus)
	if err != nil {
		h.Log.Error("count by status failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	byTrack, err := h.Leads.CountByValue(ctx, models.FieldRecruitmentTrack)
	if err != nil {
		h.Log.Error("count by track failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, dashboardResponse{
		TotalLeads: total,
		ByCohort:   byCohort,
		ByStatus:   byStatus,
		ByTrack:    byTrack,
	})
}
