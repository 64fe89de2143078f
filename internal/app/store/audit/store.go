// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth   = "auth"   // sign-in and account lifecycle
	CategoryAdmin  = "admin"  // registry and user management
	CategoryLedger = "ledger" // anything that creates, moves or removes money records
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedRateLimit     = "login_failed_rate_limit"
	EventUserRegistered           = "user_registered"
)

// Admin event types
const (
	EventUserUpdated      = "user_updated"
	EventUserDeleted      = "user_deleted"
	EventVolunteerCreated = "volunteer_created"
	EventVolunteerUpdated = "volunteer_updated"
	EventVolunteerDeleted = "volunteer_deleted"
)

// Ledger event types
const (
	EventDonationCreated        = "donation_created"
	EventDonationStatusChanged  = "donation_status_changed"
	EventDonationStatusOverride = "donation_status_override"
	EventDonationDeleted        = "donation_deleted"
	EventOfferCreated           = "offer_created"
	EventOfferConverted         = "offer_converted"
	EventOfferConfirmed         = "offer_confirmed"
	EventOfferDeleted           = "offer_deleted"
	EventPaymentVerified        = "payment_verified"
	EventPaymentRejected        = "payment_rejected"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who did it, and to what
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty"`
	SubjectID *primitive.ObjectID `bson:"subject_id,omitempty"`

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	SubjectID *primitive.ObjectID
	ActorID   *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	query := bson.M{}
	if filter.SubjectID != nil {
		query["subject_id"] = filter.SubjectID
	}
	if filter.ActorID != nil {
		query["actor_id"] = filter.ActorID
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		tq := bson.M{}
		if filter.StartTime != nil {
			tq["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			tq["$lte"] = *filter.EndTime
		}
		query["timestamp"] = tq
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetBySubject returns the most recent events about one record.
func (s *Store) GetBySubject(ctx context.Context, subjectID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{SubjectID: &subjectID, Limit: limit})
}
