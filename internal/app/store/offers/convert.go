package offerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/donorhub/internal/app/system/txn"
	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Conversion is the result of a successful MarkPaid.
type Conversion struct {
	Offer    Resolved
	Donation models.Donation
}

// MarkPaid converts an unpaid offer into an approved by_hand donation.
//
// The offer is claimed with a conditional update on status, so at most one
// caller can convert it even without transactions. On a replica set the
// claim and the donation insert commit together. Elsewhere a failed insert
// releases the claim by matching on the donation id it wrote.
func (s *Store) MarkPaid(ctx context.Context, id primitive.ObjectID, log *zap.Logger) (Conversion, error) {
	o, err := s.GetResolved(ctx, id)
	if err != nil {
		return Conversion{}, err
	}
	if err := lifecycle.CheckConversion(o.Status); err != nil {
		return Conversion{}, err
	}
	if o.Donor == nil || o.Donor.Name == "" {
		return Conversion{}, ErrMissingDonor
	}

	now := time.Now().UTC()
	donationID := primitive.NewObjectID()
	d := models.Donation{
		ID:            donationID,
		DonorID:       &o.DonorID,
		DonorName:     o.Donor.Name,
		Amount:        o.Amount,
		Cause:         o.Cause,
		WhatsApp:      o.WhatsApp,
		PaymentMethod: lifecycle.PaymentByHand,
		Status:        lifecycle.DonationApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if o.Volunteer != nil {
		vid := o.Volunteer.ID
		d.VolunteerID = &vid
	}

	err = txn.Run(ctx, s.db, log, func(ctx context.Context) error {
		res := s.c.FindOneAndUpdate(ctx,
			bson.M{"_id": id, "status": lifecycle.OfferUnpaid},
			bson.M{"$set": bson.M{
				"status":      lifecycle.OfferPaid,
				"donation_id": donationID,
				"updated_at":  now,
			}})
		if err := res.Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrAlreadyPaid
			}
			return fmt.Errorf("claim offer: %w", err)
		}
		if _, err := s.donations.InsertOne(ctx, d); err != nil {
			return fmt.Errorf("insert donation: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyPaid) {
			s.release(ctx, id, donationID, log)
		}
		return Conversion{}, err
	}

	o.Status = lifecycle.OfferPaid
	o.DonationID = &donationID
	o.UpdatedAt = now
	return Conversion{Offer: o, Donation: d}, nil
}

// release undoes a claim whose donation was never written. It only
// matches the claim this call made.
func (s *Store) release(ctx context.Context, id, donationID primitive.ObjectID, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	n, err := s.donations.CountDocuments(ctx, bson.M{"_id": donationID})
	if err == nil && n > 0 {
		return
	}
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": lifecycle.OfferPaid, "donation_id": donationID},
		bson.M{
			"$set":   bson.M{"status": lifecycle.OfferUnpaid, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"donation_id": ""},
		})
	if err != nil {
		log.Error("failed to release offer claim",
			zap.String("offer_id", id.Hex()),
			zap.String("donation_id", donationID.Hex()),
			zap.Error(err))
	}
}
