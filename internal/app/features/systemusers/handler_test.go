package systemusers_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/features/systemusers"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"github.com/dalemusser/donorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*systemusers.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDBWithIndexes(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	handler := systemusers.NewHandler(db, errLog, auditlog.NewNopLogger(), logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestServeList(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "Zed Admin", "zed@example.com")
	fixtures.CreateUser(ctx, "Amy Volunteer", "amy@example.com", models.RoleVolunteer)
	fixtures.CreateDonor(ctx, "Bob Donor", "bob@example.com")

	rec := testutil.NewRecorder()
	handler.ServeList(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/users", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.DecodeJSON(t)
	users, _ := body["users"].([]any)
	if len(users) != 3 {
		t.Fatalf("got %d users, want 3", len(users))
	}
	first, _ := users[0].(map[string]any)
	if first["name"] != "Amy Volunteer" {
		t.Errorf("first user = %v, want sorted by name", first["name"])
	}
}

func TestServeVolunteers_OnlyVolunteerRole(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Amy Volunteer", "amy@example.com", models.RoleVolunteer)
	fixtures.CreateDonor(ctx, "Bob Donor", "bob@example.com")

	rec := testutil.NewRecorder()
	handler.ServeVolunteers(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/volunteers", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	if n := rec.DecodeJSON(t)["count"]; n != float64(1) {
		t.Errorf("count = %v, want 1", n)
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateDonor(ctx, "Old Name", "old@example.com")

	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/users/"+u.ID.Hex(),
		map[string]string{"name": "New Name", "role": "volunteer"}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", u.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got models.User
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&got); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.Name != "New Name" || got.Role != models.RoleVolunteer {
		t.Errorf("got %q/%q, want New Name/volunteer", got.Name, got.Role)
	}
	if got.Email != "old@example.com" {
		t.Errorf("email changed to %q; absent fields must be left alone", got.Email)
	}
}

func TestHandleUpdate_Errors(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Only Admin", "only@example.com")
	donor := fixtures.CreateDonor(ctx, "Donor", "donor@example.com")
	fixtures.CreateDonor(ctx, "Other", "other@example.com")

	tests := []struct {
		name string
		id   string
		body map[string]string
		want int
	}{
		{"bad id", "nope", map[string]string{"name": "X"}, http.StatusBadRequest},
		{"missing user", "64b000000000000000000000", map[string]string{"name": "X"}, http.StatusNotFound},
		{"bad role", donor.ID.Hex(), map[string]string{"role": "owner"}, http.StatusBadRequest},
		{"duplicate email", donor.ID.Hex(), map[string]string{"email": "other@example.com"}, http.StatusConflict},
		{"demote last admin", admin.ID.Hex(), map[string]string{"role": "donor"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/users/"+tt.id, tt.body, testutil.AdminUser())
			req = testutil.WithChiURLParam(req, "id", tt.id)
			rec := testutil.NewRecorder()
			handler.HandleUpdate(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestHandleDelete(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateDonor(ctx, "Gone Soon", "gone@example.com")

	req := testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/users/"+u.ID.Hex(), nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", u.ID.Hex())
	rec := testutil.NewRecorder()
	handler.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	n, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": u.ID})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if n != 0 {
		t.Error("user still present after delete")
	}

	// Deleting again is a 404.
	rec = testutil.NewRecorder()
	req = testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/users/"+u.ID.Hex(), nil, testutil.AdminUser())
	handler.HandleDelete(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete_Guards(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	self := fixtures.CreateAdmin(ctx, "Self Admin", "self@example.com")

	// Self-delete is refused even when other admins exist.
	other := fixtures.CreateAdmin(ctx, "Other Admin", "other@example.com")
	req := testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/users/"+self.ID.Hex(), nil, testutil.AsTestUser(self))
	rec := testutil.NewRecorder()
	handler.HandleDelete(rec, testutil.WithChiURLParam(req, "id", self.ID.Hex()))
	rec.AssertStatus(t, http.StatusConflict)

	// Deleting the other admin leaves one; deleting that one is refused.
	req = testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/users/"+other.ID.Hex(), nil, testutil.AsTestUser(self))
	rec = testutil.NewRecorder()
	handler.HandleDelete(rec, testutil.WithChiURLParam(req, "id", other.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/users/"+self.ID.Hex(), nil, testutil.AdminUser())
	rec = testutil.NewRecorder()
	handler.HandleDelete(rec, testutil.WithChiURLParam(req, "id", self.ID.Hex()))
	rec.AssertStatus(t, http.StatusConflict)
}
