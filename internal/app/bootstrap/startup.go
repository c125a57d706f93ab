// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("overrides", n))
	}

	secure := appCfg.SessionSecure || coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		return fmt.Errorf("init session store: %w", err)
	}

	if err := seedInitialAdmin(ctx, appCfg, deps, logger); err != nil {
		return err
	}

	return nil
}

// seedInitialAdmin creates the configured administrator account when no
// active administrator exists yet. Without one, nobody can review change
// requests or manage accounts.
func seedInitialAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	n, err := users.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count administrators: %w", err)
	}
	if n > 0 {
		return nil
	}
	if appCfg.InitialAdminEmail == "" {
		logger.Warn("no active administrator exists and initial_admin_email is not set")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.InitialAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash initial admin password: %w", err)
	}

	created, err := users.Create(ctx, models.User{
		FullName:     appCfg.InitialAdminName,
		Email:        appCfg.InitialAdminEmail,
		Role:         models.RoleAdministrator,
		Status:       models.UserActive,
		PasswordHash: string(hash),
	})
	if err != nil {
		// Another instance may have seeded the account first.
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("seed initial administrator: %w", err)
	}

	logger.Info("seeded initial administrator",
		zap.String("email", created.Email),
		zap.String("user_id", created.ID.Hex()))
	return nil
}
