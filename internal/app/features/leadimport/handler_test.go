package leadimport_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madrichim/leadhub/internal/app/features/leadimport"
	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/domain/models"
	"github.com/madrichim/leadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*leadimport.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return leadimport.NewHandler(leadstore.New(db), nil, zap.NewNop()), db
}

func importRequest(t *testing.T, csvBody string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "leads.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatalf("write csv part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/leads/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, testutil.AdminUser())
}

func TestHandleImport(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	csvBody := "first_name,last_name,email,city\n" +
		"Avi,Cohen,avi@example.com,Haifa\n" +
		"Ben,Levi,ben@example.com,Tel Aviv\n"

	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, importRequest(t, csvBody))

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		BatchID  string `json:"batch_id"`
		Imported int    `json:"imported"`
		Skipped  int    `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Imported != 2 || resp.Skipped != 0 {
		t.Errorf("imported %d skipped %d, want 2/0", resp.Imported, resp.Skipped)
	}
	if resp.BatchID == "" {
		t.Error("batch id missing from response")
	}

	store := leadstore.New(db)
	leads, err := store.Find(ctx, bson.M{"import_batch_id": resp.BatchID}, nil)
	if err != nil {
		t.Fatalf("find imported leads: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("imported leads: got %d, want 2", len(leads))
	}
	for _, l := range leads {
		if l.ImportBatchID != resp.BatchID {
			t.Errorf("lead %s missing batch id", l.ID.Hex())
		}
	}
}

func TestHandleImport_SkipsExistingEmails(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateLeadWithFields(ctx, "Avi", "Cohen", map[string]string{models.FieldEmail: "avi@example.com"})

	csvBody := "first_name,last_name,email\n" +
		"Avi,Cohen,avi@example.com\n" +
		"Ben,Levi,ben@example.com\n"

	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, importRequest(t, csvBody))

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Imported != 1 || resp.Skipped != 1 {
		t.Errorf("imported %d skipped %d, want 1/1", resp.Imported, resp.Skipped)
	}

	n, err := leadstore.New(db).Count(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count leads: %v", err)
	}
	if n != 2 {
		t.Errorf("lead count: got %d, want 2", n)
	}
}

func TestHandleImport_RejectsFileWithBadRows(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	csvBody := "first_name,last_name\n" +
		"Avi,Cohen\n" +
		",Levi\n"

	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, importRequest(t, csvBody))

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "missing first name")

	// All-or-nothing: the valid row must not have been imported.
	n, err := leadstore.New(db).Count(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count leads: %v", err)
	}
	if n != 0 {
		t.Errorf("lead count after rejected import: got %d, want 0", n)
	}
}

func TestHandleImport_UnknownColumn(t *testing.T) {
	h, _ := newTestHandler(t)

	csvBody := "first_name,last_name,shoe_size\nAvi,Cohen,44\n"
	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, importRequest(t, csvBody))

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "unknown column")
}

func TestHandleImport_EmptyFile(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, importRequest(t, ""))

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleImport_MissingFilePart(t *testing.T) {
	h, _ := newTestHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/leads/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleImport_NormalizesImportedRows(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// nationality_count=1 blanks the second nationality on the way in.
	csvBody := "first_name,last_name,email,nationality_count,nationality_2\n" +
		"Avi,Cohen,avi@example.com,1,France\n"

	rec := testutil.NewRecorder()
	h.HandleImport(rec.ResponseRecorder, importRequest(t, csvBody))
	rec.AssertStatus(t, http.StatusOK)

	leads, err := leadstore.New(db).Find(ctx, bson.M{}, nil)
	if err != nil {
		t.Fatalf("find leads: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("lead count: got %d, want 1", len(leads))
	}
	if leads[0].Nationality2 != "" {
		t.Errorf("nationality_2 not blanked on import: %q", leads[0].Nationality2)
	}
	if leads[0].Email != "avi@example.com" {
		t.Errorf("email: got %q", leads[0].Email)
	}
}
