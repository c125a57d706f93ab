// internal/app/features/leads/list.go
package leads

import (
	"context"
	"maps"
	"net/http"

	"github.com/madrichim/leadhub/internal/app/system/paging"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/search"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// leadRow is the list projection of a lead.
type leadRow struct {
	ID                string `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	City              string `json:"city"`
	CurrentStatus     string `json:"current_status"`
	RecruitmentCohort string `json:"recruitment_cohort"`
	RecruitmentTrack  string `json:"recruitment_track"`
}

type listResponse struct {
	Leads      []leadRow `json:"leads"`
	Total      int64     `json:"total"`
	HasPrev    bool      `json:"has_prev"`
	HasNext    bool      `json:"has_next"`
	PrevCursor string    `json:"prev_cursor,omitempty"`
	NextCursor string    `json:"next_cursor,omitempty"`
	RangeStart int       `json:"range_start"`
	RangeEnd   int       `json:"range_end"`
}

// ServeList handles GET /leads with optional search (?q=) and keyset
// cursors (?after= / ?before=).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	after := r.URL.Query().Get("after")
	before := r.URL.Query().Get("before")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	resp, err := h.fetchLeadsList(ctx, q, after, before, start)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

// fetchLeadsList fetches one page of leads using look-ahead pagination:
// PageSize+1 rows, trimmed after the fact to learn whether a next page exists.
func (h *Handler) fetchLeadsList(ctx context.Context, q, after, before string, start int) (listResponse, error) {
	base := search.LeadFilter(q)

	total, err := h.Leads.Count(ctx, base)
	if err != nil {
		h.Log.Error("database error counting leads", zap.Error(err))
		return listResponse{}, err
	}

	sortField := models.FieldLastName + "_ci"
	if search.IsEmailQuery(q) {
		sortField = models.FieldEmail
	}

	f := maps.Clone(base)
	find := options.Find()

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)

	// Cursor conditions need $and when the filter already carries an $or.
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		if or, hasOr := f["$or"]; hasOr {
			f["$and"] = []bson.M{{"$or": or}, ks}
			delete(f, "$or")
		} else {
			maps.Copy(f, ks)
		}
	}

	rows, err := h.Leads.Find(ctx, f, find)
	if err != nil {
		h.Log.Error("database error finding leads", zap.Error(err))
		return listResponse{}, err
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	trim := paging.TrimPage(&rows, before, after)
	rng := paging.ComputeRange(start, len(rows))

	keyFn := func(l models.Lead) string { return l.LastNameCI }
	if sortField == models.FieldEmail {
		keyFn = func(l models.Lead) string { return l.Email }
	}
	prev, next := paging.BuildCursors(rows, keyFn, func(l models.Lead) primitive.ObjectID { return l.ID })

	out := make([]leadRow, 0, len(rows))
	for _, l := range rows {
		out = append(out, leadRow{
			ID:                l.ID.Hex(),
			FirstName:         l.FirstName,
			LastName:          l.LastName,
			Email:             l.Email,
			Phone:             l.Phone,
			City:              l.City,
			CurrentStatus:     l.CurrentStatus,
			RecruitmentCohort: l.RecruitmentCohort,
			RecruitmentTrack:  l.RecruitmentTrack,
		})
	}

	return listResponse{
		Leads:      out,
		Total:      total,
		HasPrev:    trim.HasPrev,
		HasNext:    trim.HasNext,
		PrevCursor: prev,
		NextCursor: next,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
	}, nil
}
