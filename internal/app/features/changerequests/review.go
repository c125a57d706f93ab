// internal/app/features/changerequests/review.go
package changerequests

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	crstore "github.com/madrichim/leadhub/internal/app/store/changerequests"
	"github.com/madrichim/leadhub/internal/app/store/audit"
	"github.com/madrichim/leadhub/internal/app/system/authz"
	"github.com/madrichim/leadhub/internal/app/system/changeflow"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleApprove handles POST /changerequests/{requestID}/approve.
//
// The lead takes the proposed value and the request is removed. When the
// value lands but the removal fails, the request is reported as stale so
// the reviewer knows a retry will only redo the delete.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cr, ok := h.loadRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Engine.Approve(ctx, *cr); err != nil {
		if errors.Is(err, changeflow.ErrStaleAfterApply) {
			// The lead did change, so the approval is auditable even
			// though the request record lingers.
			h.AuditLog.ChangeApproved(ctx, r, actorID, cr.LeadID, cr.FieldChanged)
			respond.Error(w, http.StatusInternalServerError, "change applied but request still pending")
			return
		}
		h.Log.Error("approve change request failed", zap.Error(err), zap.String("request_id", cr.ID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.AuditLog.ChangeApproved(ctx, r, actorID, cr.LeadID, cr.FieldChanged)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "change request approved"})
}

// HandleReject handles POST /changerequests/{requestID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cr, ok := h.loadRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Engine.Reject(ctx, *cr); err != nil {
		h.Log.Error("reject change request failed", zap.Error(err), zap.String("request_id", cr.ID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.AuditLog.ChangeRejected(ctx, r, actorID, cr.LeadID, cr.FieldChanged)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "change request rejected"})
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

// HandleBulkApprove handles POST /changerequests/bulk/approve.
func (h *Handler) HandleBulkApprove(w http.ResponseWriter, r *http.Request) {
	h.handleBulk(w, r, audit.EventChangeBulkApproved, h.Engine.ApproveAll)
}

// HandleBulkReject handles POST /changerequests/bulk/reject.
func (h *Handler) HandleBulkReject(w http.ResponseWriter, r *http.Request) {
	h.handleBulk(w, r, audit.EventChangeBulkRejected, h.Engine.RejectAll)
}

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request, eventType string, op func(context.Context, []models.ChangeRequest) changeflow.BulkResult) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req bulkRequest
	if err := respond.DecodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		respond.Error(w, http.StatusBadRequest, "ids list is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Requests that no longer exist count as failures; the rest of the
	// batch still resolves.
	var (
		crs    []models.ChangeRequest
		result changeflow.BulkResult
	)
	for _, raw := range req.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, raw+" is not a valid request id")
			return
		}
		cr, err := h.Requests.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, crstore.ErrNotFound) {
				result.Failed = append(result.Failed, changeflow.BulkFailure{RequestID: id, Err: "change request not found"})
				continue
			}
			h.Log.Error("load change request failed", zap.Error(err), zap.String("request_id", id.Hex()))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		crs = append(crs, *cr)
	}

	opResult := op(ctx, crs)
	result.SuccessfulIDs = opResult.SuccessfulIDs
	result.Failed = append(result.Failed, opResult.Failed...)
	result.Total = len(req.IDs)

	h.AuditLog.BulkReview(ctx, r, actorID, eventType, len(result.SuccessfulIDs), len(result.Failed))
	respond.JSON(w, http.StatusOK, result)
}

func (h *Handler) loadRequest(w http.ResponseWriter, r *http.Request) (*models.ChangeRequest, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request id")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cr, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, crstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "change request not found")
			return nil, false
		}
		h.Log.Error("load change request failed", zap.Error(err), zap.String("request_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return cr, true
}
