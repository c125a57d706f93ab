package changeflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BulkFailure records one request in a bulk operation that did not resolve.
type BulkFailure struct {
	RequestID primitive.ObjectID `json:"request_id"`
	Err       string             `json:"error"`
}

// BulkResult summarizes a bulk approve or reject. Every input request lands
// in exactly one of SuccessfulIDs or Failed.
type BulkResult struct {
	SuccessfulIDs []primitive.ObjectID `json:"successful_ids"`
	Failed        []BulkFailure        `json:"failed,omitempty"`
	Total         int                  `json:"total"`
}

// Approve applies one pending change request: the lead takes the proposed
// value, then the request is deleted. If the update lands but the delete
// fails, the error wraps ErrStaleAfterApply so callers can tell the two
// failure modes apart.
func (e *Engine) Approve(ctx context.Context, cr models.ChangeRequest) error {
	fields := map[string]string{cr.FieldChanged: cr.NewValue}
	if err := e.leads.UpdateFields(ctx, cr.LeadID, fields); err != nil {
		return fmt.Errorf("apply change request %s: %w", cr.ID.Hex(), err)
	}

	if err := e.requests.Delete(ctx, cr.ID); err != nil {
		e.log.Error("change request applied but not removed",
			zap.String("request_id", cr.ID.Hex()),
			zap.String("lead_id", cr.LeadID.Hex()),
			zap.String("field", cr.FieldChanged),
			zap.Error(err))
		return fmt.Errorf("remove change request %s: %w: %w", cr.ID.Hex(), ErrStaleAfterApply, err)
	}

	e.log.Info("change request approved",
		zap.String("request_id", cr.ID.Hex()),
		zap.String("lead_id", cr.LeadID.Hex()),
		zap.String("field", cr.FieldChanged))
	return nil
}

// Reject discards one pending change request without touching the lead.
func (e *Engine) Reject(ctx context.Context, cr models.ChangeRequest) error {
	if err := e.requests.Delete(ctx, cr.ID); err != nil {
		return fmt.Errorf("reject change request %s: %w", cr.ID.Hex(), err)
	}
	e.log.Info("change request rejected",
		zap.String("request_id", cr.ID.Hex()),
		zap.String("lead_id", cr.LeadID.Hex()),
		zap.String("field", cr.FieldChanged))
	return nil
}

// ApproveAll approves every request at once. Items are independent: a slow
// or failing request neither blocks nor aborts the others.
func (e *Engine) ApproveAll(ctx context.Context, crs []models.ChangeRequest) BulkResult {
	return e.bulk(ctx, crs, e.Approve)
}

// RejectAll rejects every request at once with the same per-item isolation
// as ApproveAll.
func (e *Engine) RejectAll(ctx context.Context, crs []models.ChangeRequest) BulkResult {
	return e.bulk(ctx, crs, e.Reject)
}

// bulk fires op for every request and awaits the group, collecting each
// outcome under the mutex. Same fire-and-collect shape as the volunteer
// submission batch in Save.
func (e *Engine) bulk(ctx context.Context, crs []models.ChangeRequest, op func(context.Context, models.ChangeRequest) error) BulkResult {
	res := BulkResult{Total: len(crs)}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, cr := range crs {
		wg.Add(1)
		go func(cr models.ChangeRequest) {
			defer wg.Done()
			err := op(ctx, cr)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed = append(res.Failed, BulkFailure{RequestID: cr.ID, Err: err.Error()})
				return
			}
			res.SuccessfulIDs = append(res.SuccessfulIDs, cr.ID)
		}(cr)
	}
	wg.Wait()
	return res
}
