// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold.
const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
	RoleDonor     = "donor"
)

// IsRole reports whether r is one of the known roles.
func IsRole(r string) bool {
	switch r {
	case RoleAdmin, RoleVolunteer, RoleDonor:
		return true
	}
	return false
}

// User is an account that can sign in: an admin, a volunteer, or a donor.
//
// NOTE:
//   - The "volunteer" role only grants the ability to sign in and act on
//     donations and offers. The person a donation is attributed to is a
//     Volunteer record in the volunteers collection.
//   - PasswordHash is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	WhatsApp     string             `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Role         string             `bson:"role" json:"role"` // admin | volunteer | donor

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
