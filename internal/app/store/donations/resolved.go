package donationstore

import (
	"context"

	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resolved is a donation with its donor and volunteer references expanded.
// A reference that no longer resolves is nil.
type Resolved struct {
	models.Donation `bson:",inline"`
	Donor           *models.PartyRef `bson:"donor_ref,omitempty" json:"donor"`
	Volunteer       *models.PartyRef `bson:"volunteer_ref,omitempty" json:"volunteer"`
}

// lookupStages joins donor (users) and volunteer (volunteers) as single
// embedded documents. Only PartyRef fields are decoded from them.
func lookupStages() mongo.Pipeline {
	return mongo.Pipeline{
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
}

func (s *Store) aggregateResolved(ctx context.Context, match bson.M) ([]Resolved, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipe = append(pipe, lookupStages()...)

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

// ListResolved returns all donations, newest first, with refs expanded.
func (s *Store) ListResolved(ctx context.Context) ([]Resolved, error) {
	return s.aggregateResolved(ctx, bson.M{})
}

// ListByDonor returns the donor's donations, newest first.
func (s *Store) ListByDonor(ctx context.Context, donor primitive.ObjectID) ([]Resolved, error) {
	return s.aggregateResolved(ctx, bson.M{"donor": donor})
}

// ListByVolunteer returns donations attributed to the volunteer, newest
// first. This is the volunteer's assigned-donations view.
func (s *Store) ListByVolunteer(ctx context.Context, volunteer primitive.ObjectID) ([]Resolved, error) {
	return s.aggregateResolved(ctx, bson.M{"volunteer": volunteer})
}

// GetResolved loads one donation with refs expanded.
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

// DonorDisplayName is the name to print for the donation: the live user's
// name when the reference resolves, otherwise the stored donor name.
func (r Resolved) DonorDisplayName() string {
	if r.Donor != nil && r.Donor.Name != "" {
		return r.Donor.Name
	}
	return r.DonorName
}

// ListWhere returns the donations matching filter, newest first, with refs
// expanded. Report queries build the filter.
func (s *Store) ListWhere(ctx context.Context, filter bson.M) ([]Resolved, error) {
	return s.aggregateResolved(ctx, filter)
}
