// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	dashboardfeature "github.com/dalemusser/donorhub/internal/app/features/dashboard"
	donationsfeature "github.com/dalemusser/donorhub/internal/app/features/donations"
	errorsfeature "github.com/dalemusser/donorhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/donorhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/donorhub/internal/app/features/login"
	offersfeature "github.com/dalemusser/donorhub/internal/app/features/offers"
	paymentsfeature "github.com/dalemusser/donorhub/internal/app/features/payments"
	reportsfeature "github.com/dalemusser/donorhub/internal/app/features/reports"
	systemusersfeature "github.com/dalemusser/donorhub/internal/app/features/systemusers"
	volunteersfeature "github.com/dalemusser/donorhub/internal/app/features/volunteers"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/metrics"
	"github.com/dalemusser/donorhub/internal/app/system/payments"
	"github.com/dalemusser/donorhub/internal/app/system/ratelimit"
	"github.com/dalemusser/donorhub/internal/app/system/receipt"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// loginLimiter is created in BuildHandler and stopped in Shutdown.
var loginLimiter *ratelimit.LoginLimiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the shared services (token
// manager, audit logger, metrics, payment gateway) once and mounts every
// feature router under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tm, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	// Re-read the user on every request so role changes and deletions
	// take effect without waiting for the token to expire.
	tm.SetUserFetcher(userstore.NewFetcher(db))

	var gw payments.Gateway
	if appCfg.PaymentsEnabled() {
		rz, err := payments.NewRazorpay(appCfg.RazorpayKeyID, appCfg.RazorpayKeySecret)
		if err != nil {
			logger.Error("payment gateway init failed", zap.Error(err))
			return nil, err
		}
		gw = rz
	} else {
		logger.Warn("razorpay keys not set; online payments disabled")
	}

	receipts, err := receipt.LoadRenderer(appCfg.ReceiptFont)
	if err != nil {
		logger.Error("receipt font load failed", zap.String("path", appCfg.ReceiptFont), zap.Error(err))
		return nil, err
	}
	if !receipts.UTF8() {
		logger.Info("receipts use built-in fonts; non-Latin names print as '.'")
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Admin:  appCfg.AuditLogAdmin,
		Ledger: appCfg.AuditLogLedger,
	})
	m := metrics.New()
	loginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginEmailLimit)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.CORSAllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           int((5 * time.Minute).Seconds()),
	}))
	r.Use(m.Middleware)

	// Global auth middleware: loads the token's user into context when a
	// valid bearer token is present. The gates on each router decide the rest.
	r.Use(tm.LoadTokenUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", m.Handler())

	// Accounts: register, login, profile, and admin user management
	loginHandler := loginfeature.NewHandler(db, tm, loginLimiter, errLog, auditLog, m, logger)
	authRouter := loginfeature.Routes(loginHandler, tm)
	sysUsersHandler := systemusersfeature.NewHandler(db, errLog, auditLog, logger)
	systemusersfeature.Register(authRouter, sysUsersHandler, tm)
	r.Mount("/api/auth", authRouter)

	donationsHandler := donationsfeature.NewHandler(db, errLog, auditLog, m, appCfg.ReceiptDir, appCfg.Currency, logger)
	donationsHandler.Receipts = receipts
	r.Mount("/api/donations", donationsfeature.Routes(donationsHandler, tm))

	volunteersHandler := volunteersfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/api/volunteers", volunteersfeature.Routes(volunteersHandler, tm))

	offersHandler := offersfeature.NewHandler(db, errLog, auditLog, m, logger)
	r.Mount("/api/offers", offersfeature.Routes(offersHandler, tm))

	paymentsHandler := paymentsfeature.NewHandler(db, gw, appCfg.Currency, errLog, auditLog, m, logger)
	r.Mount("/api/payments", paymentsfeature.Routes(paymentsHandler, tm))

	reportsHandler := reportsfeature.NewHandler(db, errLog, logger)
	r.Mount("/api/reports", reportsfeature.Routes(reportsHandler, tm))

	dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
	r.Mount("/api/admin", dashboardfeature.Routes(dashboardHandler, tm))

	return r, nil
}
