package payments_test

import (
	"context"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/donorhub/internal/app/features/errors"
	"github.com/dalemusser/donorhub/internal/app/features/payments"
	"github.com/dalemusser/donorhub/internal/app/store/audit"
	"github.com/dalemusser/donorhub/internal/app/system/auditlog"
	"github.com/dalemusser/donorhub/internal/app/system/metrics"
	gateway "github.com/dalemusser/donorhub/internal/app/system/payments"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const secret = "test_secret"

func newTestHandler(t *testing.T, gw gateway.Gateway) (*payments.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDBWithIndexes(t)
	logger := zap.NewNop()
	audits := auditlog.New(audit.New(db), logger, auditlog.Config{Ledger: auditlog.DestDB})
	h := payments.NewHandler(db, gw, "INR", uierrors.NewErrorLogger(logger), audits, metrics.New(), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleInitiate(t *testing.T) {
	fake := gateway.NewFake(secret)
	h, _ := newTestHandler(t, fake)

	rec := testutil.NewRecorder()
	h.HandleInitiate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/initiate",
		map[string]any{"amount": 499.5, "cause": "Books"}, testutil.DonorUser()))
	rec.AssertStatus(t, http.StatusOK)

	body := rec.DecodeJSON(t)
	order, _ := body["order"].(map[string]any)
	assert.Equal(t, float64(49950), order["amount"])
	assert.Equal(t, "INR", order["currency"])
	assert.Equal(t, fake.KeyID(), body["keyId"])
	require.Len(t, fake.Orders, 1)
}

func TestHandleInitiate_NotConfigured(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := testutil.NewRecorder()
	h.HandleInitiate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/initiate",
		map[string]any{"amount": 10, "cause": "Books"}, testutil.DonorUser()))
	rec.AssertStatus(t, http.StatusServiceUnavailable)
}

// checkout runs an order through the fake gateway and returns the
// request body a completed checkout would post.
func checkout(t *testing.T, fake *gateway.Fake, amount float64) map[string]any {
	t.Helper()
	o, err := fake.CreateOrder(context.Background(), amount, "INR", nil)
	require.NoError(t, err)
	payID := fake.Capture(o.ID)
	return map[string]any{
		"orderId":   o.ID,
		"paymentId": payID,
		"signature": gateway.Sign(o.ID, payID, secret),
		"cause":     "Health",
	}
}

func verify(t *testing.T, h *payments.Handler, in map[string]any, user testutil.TestUser) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleVerify(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/verify", in, user))
	return rec
}

func rejections(t *testing.T, db *mongo.Database, paymentID string) []audit.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: audit.EventPaymentRejected})
	require.NoError(t, err)
	var out []audit.Event
	for _, e := range events {
		if e.Details["payment_id"] == paymentID {
			out = append(out, e)
		}
	}
	return out
}

func countTxn(t *testing.T, db *mongo.Database, paymentID string) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := db.Collection("donations").CountDocuments(ctx, bson.M{"transaction_id": paymentID})
	require.NoError(t, err)
	return n
}

func TestHandleVerify_RecordsCapturedAmount(t *testing.T) {
	fake := gateway.NewFake(secret)
	h, fx := newTestHandler(t, fake)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fx.CreateDonor(ctx, "Online Donor", "online@example.com")
	in := checkout(t, fake, 999)

	rec := verify(t, h, in, testutil.AsTestUser(donor))
	rec.AssertStatus(t, http.StatusCreated)

	d, _ := rec.DecodeJSON(t)["donation"].(map[string]any)
	assert.Equal(t, string(lifecycle.DonationApproved), d["status"])
	assert.Equal(t, lifecycle.PaymentRazorpay, d["paymentMethod"])
	assert.Equal(t, in["paymentId"], d["transactionId"])
	assert.Equal(t, float64(999), d["amount"])
	assert.Equal(t, "Online Donor", d["donorName"])
}

func TestHandleVerify_MatchingClientAmount(t *testing.T) {
	fake := gateway.NewFake(secret)
	h, _ := newTestHandler(t, fake)

	in := checkout(t, fake, 499.5)
	in["amount"] = 499.5
	verify(t, h, in, testutil.DonorUser()).AssertStatus(t, http.StatusCreated)
}

func TestHandleVerify_ReplayRefused(t *testing.T) {
	fake := gateway.NewFake(secret)
	h, fx := newTestHandler(t, fake)
	user := testutil.DonorUser()

	in := checkout(t, fake, 1)
	verify(t, h, in, user).AssertStatus(t, http.StatusCreated)

	in["amount"] = 1000000
	rec := verify(t, h, in, user)
	rec.AssertStatus(t, http.StatusBadRequest)

	delete(in, "amount")
	rec = verify(t, h, in, user)
	rec.AssertStatus(t, http.StatusConflict)
	assert.Equal(t, "conflict", rec.DecodeJSON(t)["error"])

	payID := in["paymentId"].(string)
	assert.Equal(t, int64(1), countTxn(t, fx.DB(), payID))
	assert.Len(t, rejections(t, fx.DB(), payID), 2)
}

func TestHandleVerify_Refusals(t *testing.T) {
	fake := gateway.NewFake(secret)
	h, fx := newTestHandler(t, fake)
	user := testutil.DonorUser()

	tests := []struct {
		name  string
		setup func() map[string]any
		want  int
	}{
		{"forged signature", func() map[string]any {
			in := checkout(t, fake, 50)
			in["signature"] = "forged"
			return in
		}, http.StatusBadRequest},
		{"client amount differs from capture", func() map[string]any {
			in := checkout(t, fake, 1)
			in["amount"] = 1000000
			return in
		}, http.StatusBadRequest},
		{"payment unknown to gateway", func() map[string]any {
			return map[string]any{
				"orderId":   "order_x",
				"paymentId": "pay_x",
				"signature": gateway.Sign("order_x", "pay_x", secret),
				"cause":     "Health",
			}
		}, http.StatusBadRequest},
		{"payment for another order", func() map[string]any {
			other := checkout(t, fake, 50)
			o, err := fake.CreateOrder(context.Background(), 5000, "INR", nil)
			require.NoError(t, err)
			payID := other["paymentId"].(string)
			return map[string]any{
				"orderId":   o.ID,
				"paymentId": payID,
				"signature": gateway.Sign(o.ID, payID, secret),
				"cause":     "Health",
			}
		}, http.StatusBadRequest},
		{"payment not captured", func() map[string]any {
			in := checkout(t, fake, 50)
			fake.SetPayment(gateway.Payment{
				ID:       in["paymentId"].(string),
				OrderID:  in["orderId"].(string),
				Amount:   5000,
				Currency: "INR",
				Status:   "authorized",
			})
			return in
		}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.setup()
			verify(t, h, in, user).AssertStatus(t, tt.want)

			payID := in["paymentId"].(string)
			assert.Zero(t, countTxn(t, fx.DB(), payID))
			events := rejections(t, fx.DB(), payID)
			require.NotEmpty(t, events)
			assert.False(t, events[len(events)-1].Success)
		})
	}
}

func TestHandleVerify_UnknownVolunteer(t *testing.T) {
	fake := gateway.NewFake(secret)
	h, _ := newTestHandler(t, fake)

	in := checkout(t, fake, 10)
	in["volunteerId"] = primitive.NewObjectID().Hex()
	verify(t, h, in, testutil.DonorUser()).AssertStatus(t, http.StatusNotFound)
}

func TestHandleOffline(t *testing.T) {
	h, fx := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fx.CreateDonor(ctx, "Cash Donor", "cash@example.com")
	v := fx.CreateVolunteer(ctx, "Collector", "+913100000000", "collector@example.com")
	user := testutil.AsTestUser(donor)

	valid := func() map[string]any {
		return map[string]any{
			"amount":        200,
			"cause":         "Shelter",
			"volunteerId":   v.ID.Hex(),
			"paymentMethod": lifecycle.PaymentGPay,
			"transactionId": "upi-123",
		}
	}

	rec := testutil.NewRecorder()
	h.HandleOffline(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/offline", valid(), user))
	rec.AssertStatus(t, http.StatusCreated)
	d, _ := rec.DecodeJSON(t)["donation"].(map[string]any)
	assert.Equal(t, string(lifecycle.DonationPending), d["status"])
	assert.Equal(t, donor.ID.Hex(), d["donorId"])
	assert.Equal(t, v.ID.Hex(), d["volunteerId"])

	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   int
	}{
		{"razorpay goes through verify", func(m map[string]any) { m["paymentMethod"] = lifecycle.PaymentRazorpay }, http.StatusBadRequest},
		{"missing volunteer", func(m map[string]any) { delete(m, "volunteerId") }, http.StatusBadRequest},
		{"unknown volunteer", func(m map[string]any) { m["volunteerId"] = primitive.NewObjectID().Hex() }, http.StatusNotFound},
		{"unknown method", func(m map[string]any) { m["paymentMethod"] = "Cheque" }, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(in)
			rec := testutil.NewRecorder()
			h.HandleOffline(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/offline", in, user))
			rec.AssertStatus(t, tt.want)
		})
	}
}
