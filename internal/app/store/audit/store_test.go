package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subject := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryLedger,
		EventType: audit.EventOfferConverted,
		SubjectID: &subject,
		IP:        "192.168.1.1",
		Success:   true,
		Details:   map[string]string{"donation_id": primitive.NewObjectID().Hex()},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetBySubject(ctx, subject, 10)
	if err != nil {
		t.Fatalf("GetBySubject failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() || events[0].Timestamp.IsZero() {
		t.Error("expected ID and Timestamp to be generated")
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)
	for i, et := range []string{audit.EventDonationCreated, audit.EventDonationDeleted, audit.EventDonationCreated} {
		if err := store.Log(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  audit.CategoryLedger,
			EventType: et,
			ActorID:   &actor,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	created, err := store.Query(ctx, audit.QueryFilter{ActorID: &actor, EventType: audit.EventDonationCreated})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(created))
	}
	if !created[0].Timestamp.After(created[1].Timestamp) {
		t.Error("expected newest first")
	}

	since := base.Add(90 * time.Second)
	recent, err := store.Query(ctx, audit.QueryFilter{ActorID: &actor, StartTime: &since})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("expected 1 event after %v, got %d", since, len(recent))
	}
}
