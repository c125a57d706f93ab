package auditlog_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/madrichim/leadhub/internal/app/features/auditlog"
	"github.com/madrichim/leadhub/internal/app/store/audit"
	"github.com/madrichim/leadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*auditlog.Handler, *audit.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	return auditlog.NewHandler(store, zap.NewNop()), store
}

func logEvent(t *testing.T, store *audit.Store, e audit.Event) audit.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if err := store.Log(ctx, e); err != nil {
		t.Fatalf("log event: %v", err)
	}
	return e
}

func TestServeList(t *testing.T) {
	h, store := newTestHandler(t)

	logEvent(t, store, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		IP:        "10.0.0.1",
		Success:   true,
	})
	logEvent(t, store, audit.Event{
		Category:  audit.CategoryLead,
		EventType: audit.EventLeadCreated,
		Success:   true,
	})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/auditlog/", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Events []map[string]any `json:"events"`
		Total  int64            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
	if len(resp.Events) != 2 {
		t.Errorf("events: got %d, want 2", len(resp.Events))
	}
}

func TestServeList_FilterByEventType(t *testing.T) {
	h, store := newTestHandler(t)

	logEvent(t, store, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Success:   true,
	})
	logEvent(t, store, audit.Event{
		Category:  audit.CategoryLead,
		EventType: audit.EventLeadCreated,
		Success:   true,
	})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/auditlog/?event_type="+audit.EventLeadCreated, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Events []struct {
			EventType string `json:"event_type"`
		} `json:"events"`
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Events) != 1 {
		t.Fatalf("filtered: total=%d events=%d, want 1/1", resp.Total, len(resp.Events))
	}
	if resp.Events[0].EventType != audit.EventLeadCreated {
		t.Errorf("event type: got %q", resp.Events[0].EventType)
	}
}

func TestServeList_FilterByLead(t *testing.T) {
	h, store := newTestHandler(t)

	leadID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	logEvent(t, store, audit.Event{
		Category:  audit.CategoryLead,
		EventType: audit.EventLeadUpdated,
		LeadID:    &leadID,
		Success:   true,
	})
	logEvent(t, store, audit.Event{
		Category:  audit.CategoryLead,
		EventType: audit.EventLeadUpdated,
		LeadID:    &other,
		Success:   true,
	})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/auditlog/?lead_id="+leadID.Hex(), testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total: got %d, want 1", resp.Total)
	}
	rec.AssertContains(t, leadID.Hex())
}

func TestServeList_FilterByTimeRange(t *testing.T) {
	h, store := newTestHandler(t)

	old := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Timestamp: time.Now().Add(-48 * time.Hour),
		Success:   true,
	}
	logEvent(t, store, old)
	logEvent(t, store, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Success:   true,
	})

	from := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/auditlog/?from="+from, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total: got %d, want 1", resp.Total)
	}
}

func TestServeList_BadParams(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, target := range []string{
		"/auditlog/?lead_id=not-hex",
		"/auditlog/?user_id=not-hex",
		"/auditlog/?from=yesterday",
		"/auditlog/?limit=0",
		"/auditlog/?offset=-1",
	} {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AdminUser())
		rec := testutil.NewRecorder()
		h.ServeList(rec.ResponseRecorder, req)
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestServeList_Empty(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/auditlog/", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"events":[]`)
}
