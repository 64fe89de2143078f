package offerstore

import (
	"context"

	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resolved is an offer with donor and volunteer expanded. A reference
// that no longer resolves is nil.
type Resolved struct {
	models.Offer `bson:",inline"`
	Donor        *models.PartyRef `bson:"donor_ref,omitempty" json:"donor"`
	Volunteer    *models.PartyRef `bson:"volunteer_ref,omitempty" json:"volunteer"`
}

func (s *Store) aggregateResolved(ctx context.Context, match bson.M) ([]Resolved, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "donor",
			"foreignField": "_id",
			"as":           "donor_ref",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "volunteers",
			"localField":   "volunteer",
			"foreignField": "_id",
			"as":           "volunteer_ref",
		}}},
		{{Key: "$set", Value: bson.M{
			"donor_ref":     bson.M{"$arrayElemAt": bson.A{"$donor_ref", 0}},
			"volunteer_ref": bson.M{"$arrayElemAt": bson.A{"$volunteer_ref", 0}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Resolved, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all offers, newest first, with refs expanded.
func (s *Store) List(ctx context.Context) ([]Resolved, error) {
	return s.aggregateResolved(ctx, bson.M{})
}

// GetResolved loads one offer with refs expanded.
func (s *Store) GetResolved(ctx context.Context, id primitive.ObjectID) (Resolved, error) {
	rows, err := s.aggregateResolved(ctx, bson.M{"_id": id})
	if err != nil {
		return Resolved{}, err
	}
	if len(rows) == 0 {
		return Resolved{}, ErrNotFound
	}
	return rows[0], nil
}

// ListWhere returns the offers matching filter, newest first, with refs
// expanded. Report queries build the filter.
func (s *Store) ListWhere(ctx context.Context, filter bson.M) ([]Resolved, error) {
	return s.aggregateResolved(ctx, filter)
}
