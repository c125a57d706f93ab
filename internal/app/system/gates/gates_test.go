package gates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/app/system/gates"
	"github.com/madrichim/leadhub/internal/domain/models"
)

// Helper to create a request with user context
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439011", // Valid ObjectID hex
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	}
	return auth.WithTestUser(r, user)
}

// Test RequireAuth

func TestRequireAuth_Authenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/leads", nil)
	req = withTestUser(req, models.RoleVolunteer)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req)

	if !result.OK {
		t.Error("expected OK to be true for authenticated user")
	}
	if result.Role != models.RoleVolunteer {
		t.Errorf("Role: got %q, want %q", result.Role, models.RoleVolunteer)
	}
	if result.Name != "Test User" {
		t.Errorf("Name: got %q, want %q", result.Name, "Test User")
	}
	if result.UserID.IsZero() {
		t.Error("expected UserID to be set")
	}
}

func TestRequireAuth_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/leads", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireAuth(rec, req)

	if result.OK {
		t.Error("expected OK to be false for unauthenticated user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// Test RequireAdministrator

func TestRequireAdministrator_AsAdministrator(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/change-requests", nil)
	req = withTestUser(req, models.RoleAdministrator)
	rec := httptest.NewRecorder()

	result := gates.RequireAdministrator(rec, req, "administrators only")

	if !result.OK {
		t.Error("expected OK to be true for administrator")
	}
}

func TestRequireAdministrator_AsVolunteer(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/change-requests", nil)
	req = withTestUser(req, models.RoleVolunteer)
	rec := httptest.NewRecorder()

	result := gates.RequireAdministrator(rec, req, "administrators only")

	if result.OK {
		t.Error("expected OK to be false for volunteer")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireAdministrator_NotAuthenticated(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/change-requests", nil)
	rec := httptest.NewRecorder()

	result := gates.RequireAdministrator(rec, req, "administrators only")

	if result.OK {
		t.Error("expected OK to be false when signed out")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// Test RequireAnyRole

func TestRequireAnyRole_Match(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/leads", nil)
	req = withTestUser(req, models.RoleVolunteer)
	rec := httptest.NewRecorder()

	result := gates.RequireAnyRole(rec, req, "staff only", models.RoleAdministrator, models.RoleVolunteer)

	if !result.OK {
		t.Error("expected OK to be true when role is in the allowed set")
	}
}

func TestRequireAnyRole_NoMatch(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/leads", nil)
	req = withTestUser(req, "guest")
	rec := httptest.NewRecorder()

	result := gates.RequireAnyRole(rec, req, "staff only", models.RoleAdministrator, models.RoleVolunteer)

	if result.OK {
		t.Error("expected OK to be false for unknown role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
