// internal/domain/models/donation.go
package models

import (
	"time"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation is a recorded gift.
//
// DonorName is denormalized: public donations have no donor account, and
// converted offers copy the donor's name at conversion time.
type Donation struct {
	ID            primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	DonorID       *primitive.ObjectID      `bson:"donor,omitempty" json:"donorId,omitempty"`
	DonorName     string                   `bson:"donor_name" json:"donorName"`
	Amount        float64                  `bson:"amount" json:"amount"`
	Cause         string                   `bson:"cause" json:"cause"`
	WhatsApp      string                   `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	PaymentMethod string                   `bson:"payment_method" json:"paymentMethod"`
	TransactionID string                   `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	Status        lifecycle.DonationStatus `bson:"status" json:"status"`
	VolunteerID   *primitive.ObjectID      `bson:"volunteer,omitempty" json:"volunteerId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
