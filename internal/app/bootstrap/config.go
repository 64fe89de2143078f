// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minProdSecret is the shortest JWT secret accepted in production.
const minProdSecret = 32

// appConfigKeys defines the configuration keys for DonorHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DONORHUB_MONGO_URI, DONORHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "donorhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tokens
	{Name: "jwt_secret", Default: "", Desc: "HMAC secret for bearer tokens (required; 32+ chars in prod)"},
	{Name: "jwt_ttl", Default: "168h", Desc: "Bearer token lifetime (e.g., 24h, 168h)"},

	// CORS
	{Name: "cors_allowed_origin", Default: "http://localhost:3000", Desc: "Origin allowed to call the API"},

	// Payments
	{Name: "razorpay_key_id", Default: "", Desc: "Razorpay key id (blank disables online payments)"},
	{Name: "razorpay_key_secret", Default: "", Desc: "Razorpay key secret"},
	{Name: "currency", Default: "INR", Desc: "ISO currency for orders and receipts"},

	// Receipts
	{Name: "receipt_dir", Default: "", Desc: "Directory for temporary receipt PDFs (blank means system temp)"},
	{Name: "receipt_font", Default: "", Desc: "Path to a UTF-8 TrueType font for receipts, needed for non-Latin names (blank uses built-in fonts)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (created on startup if absent)"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrap admin"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_ledger", Default: "all", Desc: "Donation/offer/payment event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Login rate limiting
	{Name: "login_ip_limit", Default: 20, Desc: "Login attempts per IP per minute"},
	{Name: "login_email_limit", Default: 5, Desc: "Login attempts per email per 5 minutes"},

	// Database deadlines for handlers
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and simple writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for aggregations and multi-collection writes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, DONORHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DONORHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 7*24*time.Hour),

		CORSAllowedOrigin: appValues.String("cors_allowed_origin"),

		RazorpayKeyID:     strings.TrimSpace(appValues.String("razorpay_key_id")),
		RazorpayKeySecret: strings.TrimSpace(appValues.String("razorpay_key_secret")),
		Currency:          strings.ToUpper(strings.TrimSpace(appValues.String("currency"))),

		ReceiptDir:  appValues.String("receipt_dir"),
		ReceiptFont: strings.TrimSpace(appValues.String("receipt_font")),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditLogLedger: appValues.String("audit_log_ledger"),

		LoginIPLimit:    appValues.Int("login_ip_limit"),
		LoginEmailLimit: appValues.Int("login_email_limit"),

		Timeouts: timeouts.Config{
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		},
	}
	if appCfg.Currency == "" {
		appCfg.Currency = "INR"
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It checks the MongoDB URI format before attempting to connect, enforces
// a strong token secret in production, and refuses half-configured
// payment credentials.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	return validate(coreCfg.Env, appCfg, logger)
}

func validate(env string, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if env == "prod" && len(appCfg.JWTSecret) < minProdSecret {
		return fmt.Errorf("jwt_secret must be at least %d characters in prod", minProdSecret)
	}

	if (appCfg.RazorpayKeyID == "") != (appCfg.RazorpayKeySecret == "") {
		return errors.New("razorpay_key_id and razorpay_key_secret must be set together")
	}

	for name, v := range map[string]string{
		"audit_log_auth":   appCfg.AuditLogAuth,
		"audit_log_admin":  appCfg.AuditLogAdmin,
		"audit_log_ledger": appCfg.AuditLogLedger,
	} {
		switch v {
		case "", auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, v)
		}
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return errors.New("admin_password is required when admin_email is set")
	}
	if len(appCfg.AdminPassword) > auth.MaxPasswordBytes {
		return fmt.Errorf("admin_password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	if appCfg.LoginIPLimit <= 0 || appCfg.LoginEmailLimit <= 0 {
		return errors.New("login_ip_limit and login_email_limit must be positive")
	}
	return nil
}
