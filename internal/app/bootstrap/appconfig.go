// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and CORS. AppConfig is where everything
// specific to BugHive lives: the MongoDB connection, session cookie
// settings, and the Google OAuth credentials.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: bughive-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // Server-side session lifetime

	// Google OAuth configuration (login-only; accounts must already exist)
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for the OAuth redirect callback
	BaseURL string // e.g., "https://bughive.dev" or "http://localhost:3000"
}
