// internal/app/features/payments/handler.go
package payments

import (
	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/metrics"
	gateway "github.com/dalemusser/donorhub/internal/app/system/payments"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves online checkout and offline payment submission.
type Handler struct {
	DB         *mongo.Database
	Donations  *donationstore.Store
	Volunteers *volunteerstore.Store
	Gateway    gateway.Gateway // nil when no keys are configured
	Currency   string
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics
}

func NewHandler(
	db *mongo.Database,
	gw gateway.Gateway,
	currency string,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	if currency == "" {
		currency = "INR"
	}
	return &Handler{
		DB:         db,
		Donations:  donationstore.New(db),
		Volunteers: volunteerstore.New(db),
		Gateway:    gw,
		Currency:   currency,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		Metrics:    m,
	}
}
