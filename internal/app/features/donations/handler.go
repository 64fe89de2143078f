// internal/app/features/donations/handler.go
package donations

import (
	"context"
	"strings"

	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/metrics"
	"github.com/dalemusser/donorhub/internal/app/system/receipt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the donation endpoints.
type Handler struct {
	DB         *mongo.Database
	Donations  *donationstore.Store
	Volunteers *volunteerstore.Store
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics

	ReceiptDir string            // temp files for rendered PDFs; empty means os.TempDir()
	Receipts   *receipt.Renderer // nil renders with the core fonts
	Currency   string
}

// NewHandler constructs a donations handler bound to db.
func NewHandler(
	db *mongo.Database,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	receiptDir, currency string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:         db,
		Donations:  donationstore.New(db),
		Volunteers: volunteerstore.New(db),
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		Metrics:    m,
		ReceiptDir: receiptDir,
		Currency:   currency,
	}
}

// resolveVolunteer turns an optional volunteer id or name into a registry
// reference. Both empty yields nil. The id wins when both are given.
func (h *Handler) resolveVolunteer(ctx context.Context, id, name string) (*primitive.ObjectID, error) {
	if id = strings.TrimSpace(id); id != "" {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, volunteerstore.ErrNotFound
		}
		ok, err := h.Volunteers.Exists(ctx, oid)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, volunteerstore.ErrNotFound
		}
		return &oid, nil
	}
	if name = strings.TrimSpace(name); name != "" {
		v, err := h.Volunteers.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return &v.ID, nil
	}
	return nil, nil
}
