package changeflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Processor transforms a field snapshot before comparison; the field rules
// normalizer is the usual plug-in. It must not mutate its input.
type Processor func(map[string]string) map[string]string

// SaveInput carries one save action. FormData and Original are full
// snapshots of the section's fields; FieldsToCheck scopes change detection
// to the fields the calling form owns, in the form's declared order.
type SaveInput struct {
	Role          Role
	LeadID        primitive.ObjectID
	FormData      map[string]string
	Original      map[string]string
	FieldsToCheck []string
	Pending       []models.ChangeRequest
	ChangedBy     string
	Processor     Processor
}

// FieldFailure records one change-request submission that failed.
type FieldFailure struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// SaveResult reports what a save did. Exactly one of DirectUpdate,
// NoChanges, or Created>0 describes the outcome; Failed lists per-field
// submission failures that did not abort the rest of the batch.
type SaveResult struct {
	DirectUpdate bool                   `json:"direct_update"`
	NoChanges    bool                   `json:"no_changes"`
	Created      int                    `json:"created"`
	Failed       []FieldFailure         `json:"failed,omitempty"`
	Pending      []models.ChangeRequest `json:"pending,omitempty"`
	Message      string                 `json:"message"`
}

// Save applies one save action according to the acting role.
//
// Administrators: one direct update of the processed form data, scoped to
// FieldsToCheck. Volunteers: one ChangeRequest per changed, not-yet-pending
// field, submitted concurrently with fire-and-collect semantics, then the
// pending list is refetched so the result reflects the new proposals.
// Any other role fails with ErrUnauthorizedRole before touching anything.
func (e *Engine) Save(ctx context.Context, in SaveInput) (SaveResult, error) {
	proc := in.Processor
	if proc == nil {
		proc = func(m map[string]string) map[string]string { return m }
	}
	processedNew := proc(in.FormData)
	processedOriginal := proc(in.Original)

	switch in.Role {
	case RoleAdministrator:
		return e.saveDirect(ctx, in, processedNew)
	case RoleVolunteer:
		return e.savePropose(ctx, in, processedNew, processedOriginal)
	default:
		return SaveResult{}, ErrUnauthorizedRole
	}
}

func (e *Engine) saveDirect(ctx context.Context, in SaveInput, processed map[string]string) (SaveResult, error) {
	fields := make(map[string]string, len(in.FieldsToCheck))
	for _, f := range in.FieldsToCheck {
		fields[f] = processed[f]
	}

	if err := e.leads.UpdateFields(ctx, in.LeadID, fields); err != nil {
		return SaveResult{}, fmt.Errorf("update lead %s: %w", in.LeadID.Hex(), err)
	}

	e.log.Info("lead updated directly",
		zap.String("lead_id", in.LeadID.Hex()),
		zap.String("changed_by", in.ChangedBy),
		zap.Int("fields", len(fields)))

	return SaveResult{DirectUpdate: true, Message: "lead updated"}, nil
}

func (e *Engine) savePropose(ctx context.Context, in SaveInput, processedNew, processedOriginal map[string]string) (SaveResult, error) {
	pendingFields := make(map[string]struct{}, len(in.Pending))
	for _, cr := range in.Pending {
		pendingFields[cr.FieldChanged] = struct{}{}
	}

	now := time.Now().UTC()
	var drafts []models.ChangeRequest
	for _, f := range in.FieldsToCheck {
		newValue := processedNew[f]
		oldValue := processedOriginal[f]
		if newValue == oldValue {
			continue
		}
		if _, alreadyPending := pendingFields[f]; alreadyPending {
			// A field under review cannot be re-proposed; skip silently
			// rather than queue a duplicate.
			continue
		}
		drafts = append(drafts, models.ChangeRequest{
			LeadID:       in.LeadID,
			FieldChanged: f,
			OldValue:     oldValue,
			NewValue:     newValue,
			ChangedBy:    in.ChangedBy,
			DateModified: now,
		})
	}

	if len(drafts) == 0 {
		return SaveResult{NoChanges: true, Pending: in.Pending, Message: "no changes detected"}, nil
	}

	// All submissions go out together and are awaited as a group. Each one
	// is independent: a failure neither aborts nor rolls back the others.
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		created int
		failed  []FieldFailure
	)
	for _, draft := range drafts {
		wg.Add(1)
		go func(cr models.ChangeRequest) {
			defer wg.Done()
			_, err := e.requests.Create(ctx, cr)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, FieldFailure{Field: cr.FieldChanged, Err: err.Error()})
				return
			}
			created++
		}(draft)
	}
	wg.Wait()

	if len(failed) > 0 {
		e.log.Warn("some change requests were not created",
			zap.String("lead_id", in.LeadID.Hex()),
			zap.Int("created", created),
			zap.Int("failed", len(failed)))
	}

	result := SaveResult{
		Created: created,
		Failed:  failed,
		Message: fmt.Sprintf("%d change request(s) sent for approval", created),
	}

	// Refresh so the caller's pending state includes the new proposals.
	// The creations above stand regardless of how the refresh goes.
	pending, err := e.requests.ListByLead(ctx, in.LeadID)
	if err != nil {
		return result, fmt.Errorf("refresh pending change requests for lead %s: %w", in.LeadID.Hex(), err)
	}
	result.Pending = pending
	return result, nil
}
