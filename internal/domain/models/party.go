// internal/domain/models/party.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PartyRef is the display projection of a user or volunteer that list
// endpoints attach in place of a bare id.
type PartyRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
}
