// internal/app/store/offers/offerstore.go
package offerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("offer not found")
	// ErrAlreadyPaid is returned by MarkPaid for an offer that was
	// converted before, including by a concurrent request.
	ErrAlreadyPaid = lifecycle.ErrAlreadyPaid
	// ErrMissingDonor is returned by MarkPaid when the offer's donor no
	// longer resolves to a named user.
	ErrMissingDonor = errors.New("offer donor details are missing")
	// ErrStatusChanged is returned when the stored status moved between
	// the read and the conditional write.
	ErrStatusChanged = errors.New("offer status changed concurrently")
)

type Store struct {
	db        *mongo.Database
	c         *mongo.Collection
	donations *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:        db,
		c:         db.Collection("offers"),
		donations: db.Collection("donations"),
	}
}

// Create stores a new unpaid offer.
func (s *Store) Create(ctx context.Context, o models.Offer) (models.Offer, error) {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.Status = lifecycle.OfferUnpaid
	o.DonationID = nil
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Offer{}, err
	}
	return o, nil
}

// GetByID loads one offer.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Offer, error) {
	var o models.Offer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Offer{}, ErrNotFound
		}
		return models.Offer{}, err
	}
	return o, nil
}

// Confirm moves an offer to Completed if the transition table allows it.
func (s *Store) Confirm(ctx context.Context, id primitive.ObjectID) (models.Offer, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Offer{}, err
	}
	if err := lifecycle.CheckOffer(o.Status, lifecycle.OfferCompleted); err != nil {
		return models.Offer{}, err
	}
	if o.Status == lifecycle.OfferCompleted {
		return o, nil
	}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": o.Status},
		bson.M{"$set": bson.M{"status": lifecycle.OfferCompleted, "updated_at": now}})
	if err != nil {
		return models.Offer{}, err
	}
	if res.MatchedCount == 0 {
		return models.Offer{}, ErrStatusChanged
	}
	o.Status = lifecycle.OfferCompleted
	o.UpdatedAt = now
	return o, nil
}

// Delete removes an offer. Returns ErrNotFound when absent. A donation the
// offer produced is left in place.
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
