package volunteers_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/features/volunteers"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*volunteers.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDBWithIndexes(t)
	logger := zap.NewNop()
	h := volunteers.NewHandler(db, uierrors.NewErrorLogger(logger), auditlog.NewNopLogger(), logger)
	return h, testutil.NewFixtures(t, db)
}

func withID(req *http.Request, key string, id primitive.ObjectID) *http.Request {
	return testutil.WithChiURLParam(req, key, id.Hex())
}

func TestHandleAdd(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateVolunteer(ctx, "Existing", "+911000000000", "existing@example.com")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"ok", map[string]string{"name": "Ravi", "phone": "+91 2000 000000", "email": "Ravi@Example.com"}, http.StatusCreated},
		{"duplicate email", map[string]string{"name": "Other", "phone": "+913000000000", "email": "EXISTING@example.com"}, http.StatusConflict},
		{"duplicate phone", map[string]string{"name": "Other", "phone": "+911000000000", "email": "fresh@example.com"}, http.StatusConflict},
		{"missing phone", map[string]string{"name": "Other", "email": "x@example.com"}, http.StatusBadRequest},
		{"bad email", map[string]string{"name": "Other", "phone": "+914000000000", "email": "nope"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleAdd(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/add", tt.body, testutil.AdminUser()))
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestServeDirectory_IDAndNameOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateVolunteer(ctx, "Zara", "+915000000000", "zara@example.com")
	fx.CreateVolunteer(ctx, "Arun", "+916000000000", "arun@example.com")

	rec := testutil.NewRecorder()
	h.ServeDirectory(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)

	list, _ := rec.DecodeJSON(t)["volunteers"].([]any)
	if len(list) != 2 {
		t.Fatalf("got %d volunteers, want 2", len(list))
	}
	first := list[0].(map[string]any)
	if first["name"] != "Arun" {
		t.Errorf("first = %v, want Arun (sorted by name)", first["name"])
	}
	if _, ok := first["phone"]; ok {
		t.Error("directory must not expose phone")
	}
	if _, ok := first["email"]; ok {
		t.Error("directory must not expose email")
	}
}

func TestHandleUpdate(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	v := fx.CreateVolunteer(ctx, "Old", "+917000000000", "old@example.com")
	fx.CreateVolunteer(ctx, "Taken", "+918000000000", "taken@example.com")

	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/update/x", map[string]string{"name": "New"}, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, withID(req, "id", v.ID))
	rec.AssertStatus(t, http.StatusOK)

	got, _ := rec.DecodeJSON(t)["volunteer"].(map[string]any)
	if got["name"] != "New" || got["phone"] != "+917000000000" {
		t.Errorf("volunteer = %v, want name changed and phone kept", got)
	}

	req = testutil.NewAuthenticatedRequest(t, http.MethodPut, "/update/x", map[string]string{"email": "taken@example.com"}, testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(req, "id", v.ID))
	rec.AssertStatus(t, http.StatusConflict)

	req = testutil.NewAuthenticatedRequest(t, http.MethodPut, "/update/x", map[string]string{"name": "Ghost"}, testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(req, "id", primitive.NewObjectID()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	v := fx.CreateVolunteer(ctx, "Leaving", "+919000000000", "leaving@example.com")

	del := func(id primitive.ObjectID) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/delete/x", nil, testutil.AdminUser())
		rec := testutil.NewRecorder()
		h.HandleDelete(rec, withID(req, "id", id))
		return rec
	}
	del(v.ID).AssertStatus(t, http.StatusOK)
	del(v.ID).AssertStatus(t, http.StatusNotFound)
}

func TestServeAssigned_DerivedFromDonations(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v := fx.CreateVolunteer(ctx, "Busy", "+911100000000", "busy@example.com")
	idle := fx.CreateVolunteer(ctx, "Idle", "+911200000000", "idle@example.com")
	fx.CreateDonation(ctx, testutil.DonationOpts{Volunteer: &v.ID})
	fx.CreateDonation(ctx, testutil.DonationOpts{Volunteer: &v.ID})
	fx.CreateDonation(ctx, testutil.DonationOpts{})

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/assigned/x", nil, testutil.VolunteerUser())
	rec := testutil.NewRecorder()
	h.ServeAssigned(rec, withID(req, "volunteerId", v.ID))
	rec.AssertStatus(t, http.StatusOK)
	if n := rec.DecodeJSON(t)["count"]; n != float64(2) {
		t.Errorf("count = %v, want 2", n)
	}

	req = testutil.NewAuthenticatedRequest(t, http.MethodGet, "/assigned/x", nil, testutil.VolunteerUser())
	rec = testutil.NewRecorder()
	h.ServeAssigned(rec, withID(req, "volunteerId", idle.ID))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleConfirmDonation(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		from lifecycle.DonationStatus
		want int
	}{
		{lifecycle.DonationApproved, http.StatusOK},
		{lifecycle.DonationCompleted, http.StatusOK},
		{lifecycle.DonationPending, http.StatusConflict},
		{lifecycle.DonationRejected, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			d := fx.CreateDonation(ctx, testutil.DonationOpts{Status: tt.from})
			req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/confirm/x", nil, testutil.VolunteerUser())
			rec := testutil.NewRecorder()
			h.HandleConfirmDonation(rec, withID(req, "id", d.ID))
			rec.AssertStatus(t, tt.want)

			var stored struct {
				Status lifecycle.DonationStatus `bson:"status"`
			}
			if err := fx.DB().Collection("donations").FindOne(ctx, bson.M{"_id": d.ID}).Decode(&stored); err != nil {
				t.Fatalf("FindOne: %v", err)
			}
			want := tt.from
			if tt.want == http.StatusOK {
				want = lifecycle.DonationCompleted
			}
			if stored.Status != want {
				t.Errorf("stored status = %q, want %q", stored.Status, want)
			}
		})
	}

	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/confirm/x", nil, testutil.VolunteerUser())
	rec := testutil.NewRecorder()
	h.HandleConfirmDonation(rec, withID(req, "id", primitive.NewObjectID()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeStats(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fx.CreateDonor(ctx, "D", "d@example.com")
	v := fx.CreateVolunteer(ctx, "V", "+911300000000", "v@example.com")
	fx.CreateDonation(ctx, testutil.DonationOpts{Status: lifecycle.DonationApproved})
	fx.CreateDonation(ctx, testutil.DonationOpts{Status: lifecycle.DonationRejected})
	fx.CreateOffer(ctx, donor.ID, v.ID, 50, lifecycle.OfferUnpaid)

	rec := testutil.NewRecorder()
	h.ServeStats(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/stats", nil, testutil.VolunteerUser()))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.DecodeJSON(t)
	if body["assignedDonations"] != float64(1) {
		t.Errorf("assignedDonations = %v, want 1", body["assignedDonations"])
	}
	if body["pendingOffers"] != float64(1) {
		t.Errorf("pendingOffers = %v, want 1", body["pendingOffers"])
	}
	if trend, _ := body["donationTrends"].([]any); len(trend) != 6 {
		t.Errorf("donationTrends has %d months, want 6", len(trend))
	}
}
