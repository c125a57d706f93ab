// internal/app/features/leads/create.go
package leads

import (
	"context"
	"net/http"
	"strings"

	"github.com/madrichim/leadhub/internal/app/system/authz"
	"github.com/madrichim/leadhub/internal/app/system/htmlsanitize"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /leads: intake of a new lead.
//
// The body is a flat object of tracked field names to values. Unknown keys
// reject the request; first and last name are required.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, name, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var fields map[string]string
	if err := respond.DecodeBody(w, r, &fields); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for field := range fields {
		if !models.IsLeadField(field) {
			respond.Error(w, http.StatusBadRequest, field+" is not a tracked lead field")
			return
		}
	}
	if strings.TrimSpace(fields[models.FieldFirstName]) == "" ||
		strings.TrimSpace(fields[models.FieldLastName]) == "" {
		respond.Error(w, http.StatusBadRequest, "first name and last name are required")
		return
	}
	if notes, ok := fields[models.FieldNotes]; ok {
		fields[models.FieldNotes] = htmlsanitize.Sanitize(notes)
	}

	var l models.Lead
	l.ApplyFields(fields)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Leads.Create(ctx, l)
	if err != nil {
		h.Log.Error("create lead failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.AuditLog.LeadCreated(ctx, r, actorID, created.ID, role)
	h.Log.Info("lead created",
		zap.String("lead_id", created.ID.Hex()),
		zap.String("created_by", name))

	respond.JSON(w, http.StatusCreated, created)
}
