// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off" // disabled
)

// Config picks a destination per category. Empty means DestAll.
type Config struct {
	Auth   string
	Admin  string
	Ledger string
}

// Logger records audit events to the audit store and to zap. Failures to
// record are logged and swallowed; auditing never fails a request.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// NewNopLogger returns a logger that records nothing. Handler tests use it.
func NewNopLogger() *Logger {
	return &Logger{zapLog: zap.NewNop(), config: Config{Auth: DestOff, Admin: DestOff, Ledger: DestOff}}
}

func (l *Logger) destination(category string) string {
	var d string
	switch category {
	case audit.CategoryAuth:
		d = l.config.Auth
	case audit.CategoryAdmin:
		d = l.config.Admin
	case audit.CategoryLedger:
		d = l.config.Ledger
	}
	if d == "" {
		return DestAll
	}
	return d
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.SubjectID != nil {
		fields = append(fields, zap.String("subject_id", event.SubjectID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil *Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	dest := l.destination(event.Category)
	if dest == DestOff {
		return
	}
	if dest == DestAll || dest == DestLog {
		l.logToZap(event)
	}
	if (dest == DestAll || dest == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// Record is the common shape behind the helpers below: who (taken from
// the request), what, about which record, with optional details.
func (l *Logger) Record(ctx context.Context, r *http.Request, category, eventType string, actor, subject *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  category,
		EventType: eventType,
		ActorID:   actor,
		SubjectID: subject,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Record(ctx, r, audit.CategoryAuth, audit.EventLoginSuccess, &userID, &userID, map[string]string{"email": email})
}

// LoginFailed logs a failed login. userID is nil when no account matched.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, userID *primitive.ObjectID, email, eventType, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		SubjectID:     userID,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"attempted_email": email},
	})
}

// UserRegistered logs a new account. actor is nil for self-registration.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, actor *primitive.ObjectID, userID primitive.ObjectID, role string) {
	l.Record(ctx, r, audit.CategoryAuth, audit.EventUserRegistered, actor, &userID, map[string]string{"role": role})
}

// --- Ledger Events ---

// DonationStatusChanged logs a status write. Overrides get their own event
// type so they can be reviewed separately.
func (l *Logger) DonationStatusChanged(ctx context.Context, r *http.Request, actor, donationID primitive.ObjectID, from, to string, override bool) {
	et := audit.EventDonationStatusChanged
	if override {
		et = audit.EventDonationStatusOverride
	}
	l.Record(ctx, r, audit.CategoryLedger, et, &actor, &donationID, map[string]string{"from": from, "to": to})
}

// OfferConverted logs a mark-paid conversion.
func (l *Logger) OfferConverted(ctx context.Context, r *http.Request, actor, offerID, donationID primitive.ObjectID) {
	l.Record(ctx, r, audit.CategoryLedger, audit.EventOfferConverted, &actor, &offerID, map[string]string{"donation_id": donationID.Hex()})
}

// PaymentRejected logs a checkout that was refused and why.
func (l *Logger) PaymentRejected(ctx context.Context, r *http.Request, actor *primitive.ObjectID, orderID, paymentID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryLedger,
		EventType:     audit.EventPaymentRejected,
		ActorID:       actor,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"order_id": orderID, "payment_id": paymentID},
	})
}
