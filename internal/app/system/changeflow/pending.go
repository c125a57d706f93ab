package changeflow

import (
	"github.com/madrichim/leadhub/internal/app/system/dates"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// FieldPending is what a form needs to render one field's review state.
type FieldPending struct {
	Field        string `json:"field"`
	OldValue     string `json:"old_value"`
	NewValue     string `json:"new_value"`
	ChangedBy    string `json:"changed_by"`
	DateModified string `json:"date_modified"`
}

// PendingView indexes a lead's pending change requests by field.
type PendingView struct {
	role    Role
	byField map[string]FieldPending
}

// NewPendingView builds a view for the given role. Date-typed field values
// are converted to display form so the caller can render them as-is.
func NewPendingView(role Role, pending []models.ChangeRequest) PendingView {
	byField := make(map[string]FieldPending, len(pending))
	dateFields := make(map[string]struct{}, len(models.LeadDateFields))
	for _, f := range models.LeadDateFields {
		dateFields[f] = struct{}{}
	}
	for _, cr := range pending {
		oldValue, newValue := cr.OldValue, cr.NewValue
		if _, isDate := dateFields[cr.FieldChanged]; isDate {
			oldValue = dates.Display(oldValue)
			newValue = dates.Display(newValue)
		}
		byField[cr.FieldChanged] = FieldPending{
			Field:        cr.FieldChanged,
			OldValue:     oldValue,
			NewValue:     newValue,
			ChangedBy:    cr.ChangedBy,
			DateModified: cr.DateModified.Format("02/01/2006 15:04"),
		}
	}
	return PendingView{role: role, byField: byField}
}

// HasPending reports whether the field has an unresolved change request
// blocking the caller. Only volunteers see a field as pending;
// administrators never do.
func (v PendingView) HasPending(field string) bool {
	if v.role != RoleVolunteer {
		return false
	}
	_, ok := v.byField[field]
	return ok
}

// Detail returns the pending entry for a field, if any.
func (v PendingView) Detail(field string) (FieldPending, bool) {
	fp, ok := v.byField[field]
	return fp, ok
}

// Editable reports whether the role may edit the field right now.
// Administrators always can; volunteers are locked out of fields that
// already carry a pending request.
func (v PendingView) Editable(field string) bool {
	return !v.HasPending(field)
}
