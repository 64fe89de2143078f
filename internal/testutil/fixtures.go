package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with no usable password.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     normalize.Email(email),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateDonor creates a test donor user.
func (f *Fixtures) CreateDonor(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleDonor)
}

// CreateVolunteer inserts a volunteer registry record.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name, phone, email string) models.Volunteer {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Volunteer{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Phone:     phone,
		Email:     normalize.Email(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("volunteers").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("failed to create test volunteer: %v", err)
	}
	return v
}

// DonationOpts tunes CreateDonation. Zero values pick sensible defaults.
type DonationOpts struct {
	Donor         *primitive.ObjectID
	DonorName     string
	Amount        float64
	Cause         string
	PaymentMethod string
	Status        lifecycle.DonationStatus
	Volunteer     *primitive.ObjectID
	CreatedAt     time.Time
}

// CreateDonation inserts a donation directly, bypassing the status machine.
func (f *Fixtures) CreateDonation(ctx context.Context, o DonationOpts) models.Donation {
	f.t.Helper()

	if o.Amount == 0 {
		o.Amount = 100
	}
	if o.Cause == "" {
		o.Cause = "General"
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = lifecycle.PaymentCash
	}
	if o.Status == "" {
		o.Status = lifecycle.DonationPending
	}
	if o.DonorName == "" {
		o.DonorName = "Test Donor"
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	d := models.Donation{
		ID:            primitive.NewObjectID(),
		DonorID:       o.Donor,
		DonorName:     o.DonorName,
		Amount:        o.Amount,
		Cause:         o.Cause,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		VolunteerID:   o.Volunteer,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.CreatedAt,
	}
	if _, err := f.db.Collection("donations").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}
	return d
}

// CreateOffer inserts an offer in the given status.
func (f *Fixtures) CreateOffer(ctx context.Context, donor, volunteer primitive.ObjectID, amount float64, status lifecycle.OfferStatus) models.Offer {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.Offer{
		ID:          primitive.NewObjectID(),
		DonorID:     donor,
		Amount:      amount,
		Cause:       "General",
		WhatsApp:    "+15550000000",
		VolunteerID: volunteer,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("offers").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test offer: %v", err)
	}
	return o
}
