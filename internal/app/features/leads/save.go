// internal/app/features/leads/save.go
package leads

import (
	"context"
	"errors"
	"net/http"

	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/app/system/authz"
	"github.com/madrichim/leadhub/internal/app/system/changeflow"
	"github.com/madrichim/leadhub/internal/app/system/fieldrules"
	"github.com/madrichim/leadhub/internal/app/system/htmlsanitize"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type saveRequest struct {
	// Fields is the full snapshot of the section's form values.
	Fields map[string]string `json:"fields"`
}

// HandleSave handles POST /leads/{leadID}/save/{section}.
//
// The section decides which fields are checked for changes and which
// blanking rules run. Administrators mutate the lead directly; volunteers
// produce pending change requests.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	role, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	email := authz.UserEmail(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "leadID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	section := chi.URLParam(r, "section")
	fieldsToCheck, err := fieldrules.SectionFields(section)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "unknown form section")
		return
	}
	processor, err := fieldrules.SectionProcessor(section)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "unknown form section")
		return
	}

	var req saveRequest
	if err := respond.DecodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Fields == nil {
		respond.Error(w, http.StatusBadRequest, "fields object is required")
		return
	}
	if notes, ok := req.Fields[models.FieldNotes]; ok {
		req.Fields[models.FieldNotes] = htmlsanitize.Sanitize(notes)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	engineRole, ok := changeflow.RoleFromString(role)
	if !ok {
		respond.Error(w, http.StatusForbidden, "role not authorized to save")
		return
	}

	// The form snapshot overlays the stored record so absent keys keep
	// their current values instead of reading as blanks.
	original := l.FieldMap()
	formData := make(map[string]string, len(original))
	for k, v := range original {
		formData[k] = v
	}
	for k, v := range req.Fields {
		if !models.IsLeadField(k) {
			respond.Error(w, http.StatusBadRequest, k+" is not a tracked lead field")
			return
		}
		formData[k] = v
	}

	result, err := h.Engine.Save(ctx, changeflow.SaveInput{
		Role:          engineRole,
		LeadID:        id,
		FormData:      formData,
		Original:      original,
		FieldsToCheck: fieldsToCheck,
		Pending:       pending,
		ChangedBy:     email,
		Processor:     processor,
	})
	if err != nil {
		if errors.Is(err, changeflow.ErrUnauthorizedRole) {
			respond.Error(w, http.StatusForbidden, "role not authorized to save")
			return
		}
		h.Log.Error("save lead failed",
			zap.Error(err),
			zap.String("lead_id", id.Hex()),
			zap.String("section", section))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch {
	case result.DirectUpdate:
		h.AuditLog.LeadUpdated(ctx, r, actorID, id, role, section)
	case result.Created > 0:
		h.AuditLog.ChangeProposed(ctx, r, actorID, id, result.Created)
	}

	respond.JSON(w, http.StatusOK, result)
}
