// internal/app/features/volunteers/handler.go
package volunteers

import (
	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the volunteer registry and the volunteer dashboard.
type Handler struct {
	DB         *mongo.Database
	Volunteers *volunteerstore.Store
	Donations  *donationstore.Store
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Volunteers: volunteerstore.New(db),
		Donations:  donationstore.New(db),
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
	}
}
