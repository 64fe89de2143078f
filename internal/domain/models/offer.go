// internal/domain/models/offer.go
package models

import (
	"time"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer is a pledge a donor makes through a volunteer. Marking it paid
// converts it into a Donation; DonationID then points at that donation.
type Offer struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	DonorID     primitive.ObjectID    `bson:"donor" json:"donorId"`
	Amount      float64               `bson:"amount" json:"amount"`
	Cause       string                `bson:"cause" json:"cause"`
	WhatsApp    string                `bson:"whatsapp" json:"whatsapp"`
	VolunteerID primitive.ObjectID    `bson:"volunteer" json:"volunteerId"`
	Status      lifecycle.OfferStatus `bson:"status" json:"status"`
	DonationID  *primitive.ObjectID   `bson:"donation_id,omitempty" json:"donationId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
