package reportqueries

import (
	"context"

	donationstore "github.com/dalemusser/donorhub/internal/app/store/donations"
	offerstore "github.com/dalemusser/donorhub/internal/app/store/offers"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Filter narrows a donation or offer report. Empty fields match all.
type Filter struct {
	Range         DateRange
	PaymentMethod string // donations only
	Status        string
}

func (f Filter) match() bson.M {
	m := bson.M{}
	if !f.Range.IsZero() {
		m["created_at"] = bson.M{"$gte": f.Range.Start, "$lte": f.Range.End}
	}
	if f.PaymentMethod != "" {
		m["payment_method"] = f.PaymentMethod
	}
	if f.Status != "" {
		m["status"] = f.Status
	}
	return m
}

// MonthBucket is one month of a report series.
type MonthBucket struct {
	Month       string  `bson:"_id" json:"month"` // YYYY-MM, UTC
	Count       int64   `bson:"count" json:"count"`
	TotalAmount float64 `bson:"total" json:"totalAmount"`
}

func monthly(ctx context.Context, c *mongo.Collection, match bson.M) ([]MonthBucket, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$created_at", "timezone": "UTC"}},
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]MonthBucket, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DonationReport is the filtered donation listing with totals.
type DonationReport struct {
	TotalDonations int                      `json:"totalDonations"`
	TotalAmount    float64                  `json:"totalAmount"`
	Donations      []donationstore.Resolved `json:"donations"`
	Monthly        []MonthBucket            `json:"monthlyDonations"`
}

// Donations builds the donation report for f.
func Donations(ctx context.Context, db *mongo.Database, f Filter) (DonationReport, error) {
	match := f.match()
	rows, err := donationstore.New(db).ListWhere(ctx, match)
	if err != nil {
		return DonationReport{}, err
	}
	months, err := monthly(ctx, db.Collection("donations"), match)
	if err != nil {
		return DonationReport{}, err
	}

	var total float64
	for _, d := range rows {
		total += d.Amount
	}
	return DonationReport{
		TotalDonations: len(rows),
		TotalAmount:    total,
		Donations:      rows,
		Monthly:        months,
	}, nil
}

// OfferReport is the filtered offer listing with totals.
type OfferReport struct {
	TotalOffers      int                   `json:"totalOffers"`
	TotalOfferAmount float64               `json:"totalOfferAmount"`
	Offers           []offerstore.Resolved `json:"offers"`
	Monthly          []MonthBucket         `json:"monthlyOffers"`
}

// Offers builds the offer report for f. PaymentMethod is ignored.
func Offers(ctx context.Context, db *mongo.Database, f Filter) (OfferReport, error) {
	f.PaymentMethod = ""
	match := f.match()
	rows, err := offerstore.New(db).ListWhere(ctx, match)
	if err != nil {
		return OfferReport{}, err
	}
	months, err := monthly(ctx, db.Collection("offers"), match)
	if err != nil {
		return OfferReport{}, err
	}

	var total float64
	for _, o := range rows {
		total += o.Amount
	}
	return OfferReport{
		TotalOffers:      len(rows),
		TotalOfferAmount: total,
		Offers:           rows,
		Monthly:          months,
	}, nil
}

// Contribution is one volunteer's donation totals.
type Contribution struct {
	VolunteerID    primitive.ObjectID `bson:"_id" json:"volunteerId"`
	VolunteerName  string             `bson:"name" json:"volunteerName"`
	TotalDonations int64              `bson:"count" json:"totalDonations"`
	TotalAmount    float64            `bson:"total" json:"totalAmount"`
}

// VolunteerContributions computes per-volunteer totals from donations.
// Volunteers with no donations appear with zeros.
func VolunteerContributions(ctx context.Context, db *mongo.Database) ([]Contribution, error) {
	pipe := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "donations",
			"localField":   "_id",
			"foreignField": "volunteer",
			"as":           "donations",
		}}},
		{{Key: "$project", Value: bson.M{
			"name":  1,
			"count": bson.M{"$size": "$donations"},
			"total": bson.M{"$sum": "$donations.amount"},
		}}},
	}
	cur, err := db.Collection("volunteers").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Contribution, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
