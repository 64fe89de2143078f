// internal/app/features/offers/handler.go
package offers

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	offerstore "github.com/dalemusser/donorhub/internal/app/store/offers"
	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/metrics"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves pledged offers and their conversion into donations.
type Handler struct {
	DB         *mongo.Database
	Offers     *offerstore.Store
	Volunteers *volunteerstore.Store
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Offers:     offerstore.New(db),
		Volunteers: volunteerstore.New(db),
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		Metrics:    m,
	}
}

// writeStoreError maps offer errors onto the envelope.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, offerstore.ErrNotFound):
		apiresp.Fail(w, http.StatusNotFound, apiresp.CodeNotFound, "Offer not found.")
	case errors.Is(err, offerstore.ErrAlreadyPaid):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Offer is already marked as paid.")
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Offer is already completed.")
	case errors.Is(err, offerstore.ErrStatusChanged):
		apiresp.Fail(w, http.StatusConflict, apiresp.CodeConflict, "Offer status changed; reload and try again.")
	case errors.Is(err, offerstore.ErrMissingDonor):
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeInvalidState, "Offer is missing donor details.")
	default:
		h.ErrLog.LogServerError(w, r, msg, err, "")
	}
}
