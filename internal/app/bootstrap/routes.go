// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/madrichim/leadhub/internal/app/features/auditlog"
	authgooglefeature "github.com/madrichim/leadhub/internal/app/features/authgoogle"
	changerequestsfeature "github.com/madrichim/leadhub/internal/app/features/changerequests"
	dashboardfeature "github.com/madrichim/leadhub/internal/app/features/dashboard"
	healthfeature "github.com/madrichim/leadhub/internal/app/features/health"
	leadimportfeature "github.com/madrichim/leadhub/internal/app/features/leadimport"
	leadsfeature "github.com/madrichim/leadhub/internal/app/features/leads"
	loginfeature "github.com/madrichim/leadhub/internal/app/features/login"
	logoutfeature "github.com/madrichim/leadhub/internal/app/features/logout"
	usersfeature "github.com/madrichim/leadhub/internal/app/features/users"
	"github.com/madrichim/leadhub/internal/app/store/audit"
	crstore "github.com/madrichim/leadhub/internal/app/store/changerequests"
	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/app/store/oauthstate"
	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/app/system/auditlog"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the stores, the audit logger,
// and every feature handler, then mounts each feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	leadsStore := leadstore.New(db)
	requestsStore := crstore.New(db)
	usersStore := userstore.New(db)
	auditStore := audit.New(db)
	stateStore := oauthstate.New(db)

	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Lead:   appCfg.AuditLogLead,
		Review: appCfg.AuditLogReview,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(usersStore, auditLogger, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		usersStore, stateStore, auditLogger,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Leads: listing, intake, detail, and section saves
	leadsHandler := leadsfeature.NewHandler(leadsStore, requestsStore, auditLogger, logger)
	r.Mount("/leads", leadsfeature.Routes(leadsHandler))

	importHandler := leadimportfeature.NewHandler(leadsStore, auditLogger, logger)
	r.Mount("/leads/import", leadimportfeature.Routes(importHandler))

	// Change request review
	reviewHandler := changerequestsfeature.NewHandler(leadsStore, requestsStore, auditLogger, logger)
	r.Mount("/changerequests", changerequestsfeature.Routes(reviewHandler))

	// Dashboard aggregates
	dashboardHandler := dashboardfeature.NewHandler(leadsStore, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Staff account management
	usersHandler := usersfeature.NewHandler(usersStore, auditLogger, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Audit trail
	auditHandler := auditlogfeature.NewHandler(auditStore, logger)
	r.Mount("/auditlog", auditlogfeature.Routes(auditHandler))

	return r, nil
}
