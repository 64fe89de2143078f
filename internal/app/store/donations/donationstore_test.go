package donationstore_test

import (
	"errors"
	"testing"
	"time"

	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"github.com/dalemusser/donorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_InitialStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		method string
		want   lifecycle.DonationStatus
	}{
		{lifecycle.PaymentRazorpay, lifecycle.DonationApproved},
		{lifecycle.PaymentCash, lifecycle.DonationPending},
		{lifecycle.PaymentGPay, lifecycle.DonationPending},
		{lifecycle.PaymentBankTransfer, lifecycle.DonationPending},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			d, err := store.Create(ctx, models.Donation{DonorName: "A", Amount: 10, Cause: "c", PaymentMethod: tt.method})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if d.Status != tt.want {
				t.Errorf("status = %q, want %q", d.Status, tt.want)
			}
			got, err := store.GetByID(ctx, d.ID)
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("stored status = %q, want %q", got.Status, tt.want)
			}
		})
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDonation(ctx, testutil.DonationOpts{})

	got, err := store.UpdateStatus(ctx, d.ID, lifecycle.DonationPending, lifecycle.DonationApproved)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if got.Status != lifecycle.DonationApproved {
		t.Errorf("status = %q", got.Status)
	}

	// Stale from-status loses.
	if _, err := store.UpdateStatus(ctx, d.ID, lifecycle.DonationPending, lifecycle.DonationRejected); !errors.Is(err, donationstore.ErrStatusChanged) {
		t.Errorf("expected ErrStatusChanged, got %v", err)
	}
	if _, err := store.UpdateStatus(ctx, primitive.NewObjectID(), lifecycle.DonationPending, lifecycle.DonationApproved); !errors.Is(err, donationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListResolved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Dan", "dan@example.com")
	vol := fixtures.CreateVolunteer(ctx, "Ravi", "111", "ravi@example.com")
	gone := primitive.NewObjectID()

	now := time.Now().UTC()
	older := fixtures.CreateDonation(ctx, testutil.DonationOpts{Donor: &donor.ID, Volunteer: &vol.ID, CreatedAt: now.Add(-time.Hour)})
	newer := fixtures.CreateDonation(ctx, testutil.DonationOpts{DonorName: "Walk-in", Volunteer: &gone, CreatedAt: now})

	rows, err := store.ListResolved(ctx)
	if err != nil {
		t.Fatalf("ListResolved failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatal("expected newest first")
	}

	if rows[1].Donor == nil || rows[1].Donor.Name != "Dan" || rows[1].Donor.Email != "dan@example.com" {
		t.Errorf("donor not resolved: %+v", rows[1].Donor)
	}
	if rows[1].Volunteer == nil || rows[1].Volunteer.Name != "Ravi" {
		t.Errorf("volunteer not resolved: %+v", rows[1].Volunteer)
	}
	if rows[0].Donor != nil || rows[0].Volunteer != nil {
		t.Errorf("dangling refs should be nil: %+v %+v", rows[0].Donor, rows[0].Volunteer)
	}
	if rows[0].DonorDisplayName() != "Walk-in" || rows[1].DonorDisplayName() != "Dan" {
		t.Errorf("DonorDisplayName: %q, %q", rows[0].DonorDisplayName(), rows[1].DonorDisplayName())
	}
}

func TestStore_ListByDonorAndVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateDonor(ctx, "A", "a@example.com")
	b := fixtures.CreateDonor(ctx, "B", "b@example.com")
	vol := fixtures.CreateVolunteer(ctx, "V", "1", "v@example.com")

	fixtures.CreateDonation(ctx, testutil.DonationOpts{Donor: &a.ID, Volunteer: &vol.ID})
	fixtures.CreateDonation(ctx, testutil.DonationOpts{Donor: &a.ID})
	fixtures.CreateDonation(ctx, testutil.DonationOpts{Donor: &b.ID, Volunteer: &vol.ID})

	mine, err := store.ListByDonor(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByDonor failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListByDonor len = %d, want 2", len(mine))
	}
	for _, d := range mine {
		if d.DonorID == nil || *d.DonorID != a.ID {
			t.Errorf("foreign donation returned: %+v", d.Donation)
		}
	}

	assigned, err := store.ListByVolunteer(ctx, vol.ID)
	if err != nil {
		t.Fatalf("ListByVolunteer failed: %v", err)
	}
	if len(assigned) != 2 {
		t.Errorf("ListByVolunteer len = %d, want 2", len(assigned))
	}

	none, err := store.ListByDonor(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListByDonor failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no rows, got %d", len(none))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fixtures.CreateDonation(ctx, testutil.DonationOpts{})
	keep := fixtures.CreateDonation(ctx, testutil.DonationOpts{})

	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, donationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByID(ctx, keep.ID); err != nil {
		t.Errorf("unrelated donation affected: %v", err)
	}
}

func TestStore_Create_DuplicateGatewayTransaction(t *testing.T) {
	db := testutil.SetupTestDBWithIndexes(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	razorpay := models.Donation{DonorName: "A", Amount: 10, Cause: "c", PaymentMethod: lifecycle.PaymentRazorpay, TransactionID: "pay_dup"}
	if _, err := store.Create(ctx, razorpay); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, razorpay); !errors.Is(err, donationstore.ErrDuplicateTransaction) {
		t.Fatalf("second Create error = %v, want ErrDuplicateTransaction", err)
	}

	// Offline references are not unique.
	cash := models.Donation{DonorName: "B", Amount: 10, Cause: "c", PaymentMethod: lifecycle.PaymentCash, TransactionID: "pay_dup"}
	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, cash); err != nil {
			t.Fatalf("cash Create %d failed: %v", i, err)
		}
	}
}
