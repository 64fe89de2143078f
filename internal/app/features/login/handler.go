// internal/app/features/login/handler.go
package login

import (
	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/metrics"
	"github.com/dalemusser/donorhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves registration, sign-in and the caller's profile.
type Handler struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Tokens   *auth.TokenManager
	Limiter  *ratelimit.LoginLimiter
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	tokens *auth.TokenManager,
	limiter *ratelimit.LoginLimiter,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:       db,
		Users:    userstore.New(db),
		Tokens:   tokens,
		Limiter:  limiter,
		ErrLog:   errLog,
		AuditLog: audit,
		Metrics:  m,
		Log:      logger,
	}
}

// userSummary is what sign-in and profile responses expose.
type userSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	WhatsApp string `json:"whatsapp,omitempty"`
}
