package authgoogle_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/madrichim/leadhub/internal/app/features/authgoogle"
	"github.com/madrichim/leadhub/internal/app/store/oauthstate"
	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, clientID, clientSecret string) (*authgoogle.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := authgoogle.NewHandler(
		userstore.New(db),
		oauthstate.New(db),
		nil,
		clientID, clientSecret, "http://localhost:8080",
		zap.NewNop(),
	)
	return h, db
}

func TestServeLogin_NotConfigured(t *testing.T) {
	h, _ := newTestHandler(t, "", "")

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "google_not_configured") {
		t.Errorf("location: got %q, want google_not_configured error", loc)
	}
}

func TestServeLogin_RedirectsToGoogle(t *testing.T) {
	h, db := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest("GET", "/auth/google?return=/leads", nil)
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Host != "accounts.google.com" {
		t.Errorf("host: got %q, want accounts.google.com", loc.Host)
	}

	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected a state parameter in the redirect")
	}

	// The state must have been persisted for the callback to validate.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	returnURL, valid, err := oauthstate.New(db).Validate(ctx, state)
	if err != nil {
		t.Fatalf("validate state: %v", err)
	}
	if !valid {
		t.Error("expected the issued state to be valid")
	}
	if returnURL != "/leads" {
		t.Errorf("returnURL: got %q, want %q", returnURL, "/leads")
	}
}

func TestServeCallback_MissingState(t *testing.T) {
	h, _ := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest("GET", "/auth/google/callback?code=abc", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("location: got %q, want invalid_state error", loc)
	}
}

func TestServeCallback_UnknownState(t *testing.T) {
	h, _ := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest("GET", "/auth/google/callback?state=never-issued&code=abc", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("location: got %q, want invalid_state error", loc)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	h, _ := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_denied") {
		t.Errorf("location: got %q, want google_denied error", loc)
	}
}

func TestIsConfigured(t *testing.T) {
	h := &authgoogle.Handler{ClientID: "id", ClientSecret: "secret"}
	if !h.IsConfigured() {
		t.Error("expected configured handler to report IsConfigured")
	}
	h = &authgoogle.Handler{}
	if h.IsConfigured() {
		t.Error("expected empty handler to report not configured")
	}
}
