// internal/app/store/donations/donationstore.go
package donationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("donation not found")
	// ErrStatusChanged is returned when the stored status moved between
	// the read and the conditional write.
	ErrStatusChanged = errors.New("donation status changed concurrently")
	// ErrDuplicateTransaction is returned when a gateway payment id is
	// already recorded on another donation.
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// Create stores d. Status is derived from the payment method when empty.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	now := time.Now().UTC()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if d.Status == "" {
		d.Status = lifecycle.InitialDonationStatus(d.PaymentMethod)
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Donation{}, ErrDuplicateTransaction
		}
		return models.Donation{}, err
	}
	return d, nil
}

// GetByID loads one donation.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Donation{}, ErrNotFound
		}
		return models.Donation{}, err
	}
	return d, nil
}

// UpdateStatus writes to only if the donation is still in from.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to lifecycle.DonationStatus) (models.Donation, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.Donation{}, err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return models.Donation{}, err
		}
		return models.Donation{}, ErrStatusChanged
	}
	return s.GetByID(ctx, id)
}

// Delete removes a donation. Returns ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
