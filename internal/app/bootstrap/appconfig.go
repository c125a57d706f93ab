// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and body size limits. AppConfig is
// everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)
	SessionSecure bool   // Send cookies only over HTTPS

	// Base URL for OAuth callbacks (e.g., "https://leads.example.org")
	BaseURL string

	// Google OAuth configuration. Both must be set for /auth/google to
	// be usable; otherwise password login is the only way in.
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging destinations: "all" (db+log), "db", "log", or "off"
	AuditLogAuth   string
	AuditLogLead   string
	AuditLogReview string

	// Initial administrator seeded on first startup when no active
	// administrator account exists.
	InitialAdminName     string
	InitialAdminEmail    string
	InitialAdminPassword string
}
