package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madrichim/leadhub/internal/app/features/users"
	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/app/system/indexes"
	"github.com/madrichim/leadhub/internal/domain/models"
	"github.com/madrichim/leadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (*users.Handler, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := users.NewHandler(userstore.New(db), nil, zap.NewNop())
	return h, db, testutil.NewFixtures(t, db)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	return testutil.WithUser(req, testutil.AdminUser())
}

func TestServeList(t *testing.T) {
	h, _, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateAdmin(ctx, "Dana Peretz", "dana@example.com")
	f.CreateVolunteer(ctx, "Noa Bar", "noa@example.com")

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/users/", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Users []models.User `json:"users"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
	rec.AssertContains(t, "dana@example.com")
}

func TestHandleCreate(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := jsonRequest(t, http.MethodPost, "/users/", map[string]string{
		"full_name": "Dana Peretz",
		"email":     "Dana@Example.COM",
		"role":      models.RoleVolunteer,
		"password":  "s3cret-pass",
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	stored, err := userstore.New(db).GetByEmail(ctx, "dana@example.com")
	if err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if stored.Role != models.RoleVolunteer || stored.Status != models.UserActive {
		t.Errorf("stored user: role=%q status=%q", stored.Role, stored.Status)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Error("stored password hash does not match the password")
	}
	if bytes.Contains(rec.Body.Bytes(), []byte(stored.PasswordHash)) {
		t.Error("password hash leaked in the response body")
	}
}

func TestHandleCreate_ShortPassword(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := jsonRequest(t, http.MethodPost, "/users/", map[string]string{
		"full_name": "Dana Peretz",
		"email":     "dana@example.com",
		"role":      models.RoleVolunteer,
		"password":  "short",
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreate_DuplicateEmail(t *testing.T) {
	h, db, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	f.CreateVolunteer(ctx, "Dana Peretz", "dana@example.com")

	req := jsonRequest(t, http.MethodPost, "/users/", map[string]string{
		"full_name": "Dana Again",
		"email":     "dana@example.com",
		"role":      models.RoleVolunteer,
		"password":  "s3cret-pass",
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleCreate_BadRole(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := jsonRequest(t, http.MethodPost, "/users/", map[string]string{
		"full_name": "Dana Peretz",
		"email":     "dana@example.com",
		"role":      "superadmin",
		"password":  "s3cret-pass",
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleUpdate(t *testing.T) {
	h, db, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateVolunteer(ctx, "Dana Peretz", "dana@example.com")

	req := jsonRequest(t, http.MethodPut, "/users/"+u.ID.Hex(), map[string]string{
		"full_name": "Dana Peretz",
		"email":     "dana@example.com",
		"role":      models.RoleAdministrator,
		"status":    models.UserActive,
	})
	req = testutil.WithChiURLParam(req, "userID", u.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	stored, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Role != models.RoleAdministrator {
		t.Errorf("role after update: got %q", stored.Role)
	}
}

func TestHandleUpdate_LastAdminProtected(t *testing.T) {
	h, _, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Dana Peretz", "dana@example.com")

	req := jsonRequest(t, http.MethodPut, "/users/"+admin.ID.Hex(), map[string]string{
		"full_name": "Dana Peretz",
		"email":     "dana@example.com",
		"role":      models.RoleVolunteer,
		"status":    models.UserActive,
	})
	req = testutil.WithChiURLParam(req, "userID", admin.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleSetPassword(t *testing.T) {
	h, db, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateVolunteer(ctx, "Dana Peretz", "dana@example.com")

	req := jsonRequest(t, http.MethodPost, "/users/"+u.ID.Hex()+"/password", map[string]string{
		"password": "new-s3cret-pass",
	})
	req = testutil.WithChiURLParam(req, "userID", u.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleSetPassword(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	stored, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-s3cret-pass")); err != nil {
		t.Error("new password hash does not match")
	}
}

func TestHandleDelete(t *testing.T) {
	h, db, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateVolunteer(ctx, "Dana Peretz", "dana@example.com")

	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/users/"+u.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "userID", u.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	if _, err := userstore.New(db).GetByID(ctx, u.ID); err != userstore.ErrNotFound {
		t.Errorf("deleted user still loads, err=%v", err)
	}
}

func TestHandleDelete_LastAdminProtected(t *testing.T) {
	h, db, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Dana Peretz", "dana@example.com")

	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/users/"+admin.ID.Hex(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "userID", admin.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusConflict)

	if _, err := userstore.New(db).GetByID(ctx, admin.ID); err != nil {
		t.Errorf("last admin should survive, err=%v", err)
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)

	id := "64b000000000000000000000"
	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/users/"+id, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "userID", id)
	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
}
