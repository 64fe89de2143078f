// internal/domain/models/volunteer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer is a person donations and offers are attributed to.
//
// NOTE:
//   - There is no stored list of assigned donations. The donations a
//     volunteer handled are found by querying donations.volunteer.
type Volunteer struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`
	Phone  string             `bson:"phone" json:"phone"`
	Email  string             `bson:"email" json:"email"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
