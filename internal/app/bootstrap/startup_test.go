package bootstrap

import (
	"testing"

	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/domain/models"
	"github.com/madrichim/leadhub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestSeedInitialAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		InitialAdminName:     "First Admin",
		InitialAdminEmail:    "admin@test.com",
		InitialAdminPassword: "s3cret-pass",
	}

	if err := seedInitialAdmin(ctx, cfg, deps, testLogger()); err != nil {
		t.Fatalf("seedInitialAdmin failed: %v", err)
	}

	u, err := userstore.New(db).GetByEmail(ctx, "admin@test.com")
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}
	if u.Role != models.RoleAdministrator {
		t.Errorf("role: got %q, want %q", u.Role, models.RoleAdministrator)
	}
	if u.Status != models.UserActive {
		t.Errorf("status: got %q, want %q", u.Status, models.UserActive)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Error("seeded password hash does not match the configured password")
	}
}

func TestSeedInitialAdmin_SkipsWhenAdminExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateAdmin(ctx, "Existing Admin", "existing@test.com")

	deps := DBDeps{MongoDatabase: db}
	cfg := AppConfig{
		InitialAdminEmail:    "admin@test.com",
		InitialAdminPassword: "s3cret-pass",
	}

	if err := seedInitialAdmin(ctx, cfg, deps, testLogger()); err != nil {
		t.Fatalf("seedInitialAdmin failed: %v", err)
	}

	if _, err := userstore.New(db).GetByEmail(ctx, "admin@test.com"); err != userstore.ErrNotFound {
		t.Errorf("seed should have been skipped, lookup err=%v", err)
	}
}

func TestSeedInitialAdmin_NoConfigNoError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := seedInitialAdmin(ctx, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("seedInitialAdmin with empty config failed: %v", err)
	}

	n, err := userstore.New(db).CountAdmins(ctx)
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if n != 0 {
		t.Errorf("admin count: got %d, want 0", n)
	}
}
