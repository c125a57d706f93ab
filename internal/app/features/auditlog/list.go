// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/madrichim/leadhub/internal/app/store/audit"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type listResponse struct {
	Events []eventRow `json:"events"`
	Total  int64      `json:"total"`
	Limit  int64      `json:"limit"`
	Offset int64      `json:"offset"`
}

// ServeList handles GET /auditlog/. Filters come from query parameters:
// category, event_type, user_id, lead_id, from, to (RFC 3339), limit,
// offset.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("count audit events failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.Log.Error("query audit events failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, newEventRow(e))
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Events: rows,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func filterFromQuery(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
		Limit:     defaultLimit,
	}

	if raw := q.Get("user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return filter, errBadParam("user_id")
		}
		filter.UserID = &id
	}
	if raw := q.Get("lead_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return filter, errBadParam("lead_id")
		}
		filter.LeadID = &id
	}
	if raw := q.Get("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errBadParam("from")
		}
		filter.StartTime = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errBadParam("to")
		}
		filter.EndTime = &ts
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return filter, errBadParam("limit")
		}
		if n > maxLimit {
			n = maxLimit
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return filter, errBadParam("offset")
		}
		filter.Offset = n
	}

	return filter, nil
}

type badParamError string

func errBadParam(name string) error { return badParamError(name) }

func (e badParamError) Error() string { return "invalid " + string(e) + " parameter" }
