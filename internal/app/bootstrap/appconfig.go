// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// the framework-level settings (ports, TLS, log level, body limits); this
// struct is everything specific to DonorHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret string        // HMAC signing key (at least 32 chars in production)
	JWTTTL    time.Duration // token lifetime

	// Browser front end allowed to call the API
	CORSAllowedOrigin string

	// Razorpay; both empty disables online payments
	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string

	// Directory for rendered receipt PDFs (blank means os.TempDir())
	ReceiptDir string
	// UTF-8 TrueType font for receipts (blank uses the core fonts)
	ReceiptFont string

	// Bootstrap admin, created on startup if absent
	AdminEmail    string
	AdminPassword string

	// Audit logging per category: all | db | log | off
	AuditLogAuth   string
	AuditLogAdmin  string
	AuditLogLedger string

	// Login throttling (attempts per window)
	LoginIPLimit    int
	LoginEmailLimit int

	// Handler database deadlines
	Timeouts timeouts.Config
}

// PaymentsEnabled reports whether Razorpay credentials are configured.
func (c AppConfig) PaymentsEnabled() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}
