// internal/app/features/reports/handler.go
package reports

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/donorhub/internal/app/system/apiresp"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin report endpoints (JSON and CSV export).
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a reports Handler bound to the given Mongo
// database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}

// parseFilter reads startDate, endDate, paymentMethod and status from the
// query string. It writes a 400 and returns false on bad input.
func parseFilter(w http.ResponseWriter, r *http.Request) (reportqueries.Filter, bool) {
	q := r.URL.Query()
	rng, err := reportqueries.ParseDateRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		msg := "Invalid date."
		if errors.Is(err, reportqueries.ErrBadRange) {
			msg = "startDate must not be after endDate."
		} else if errors.Is(err, reportqueries.ErrBadDate) {
			msg = "Dates must be YYYY-MM-DD or RFC 3339."
		}
		apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, msg)
		return reportqueries.Filter{}, false
	}

	f := reportqueries.Filter{Range: rng}
	if pm := strings.TrimSpace(q.Get("paymentMethod")); pm != "" {
		if !lifecycle.IsPaymentMethod(pm) {
			apiresp.Fail(w, http.StatusBadRequest, apiresp.CodeValidation, "Unknown payment method.")
			return reportqueries.Filter{}, false
		}
		f.PaymentMethod = pm
	}
	f.Status = strings.TrimSpace(q.Get("status"))
	return f, true
}
