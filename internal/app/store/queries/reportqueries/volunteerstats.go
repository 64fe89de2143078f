package reportqueries

import (
	"context"
	"time"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TrendMonths is the length of the donation trend.
const TrendMonths = 6

// StatusCount is one status and its count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthCount is one month and its count.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// VolunteerStats is the volunteer dashboard.
type VolunteerStats struct {
	AssignedDonations int64         `json:"assignedDonations"` // donations not rejected
	PendingOffers     int64         `json:"pendingOffers"`     // unpaid offers
	DonationTrends    []MonthCount  `json:"donationTrends"`
	OfferBreakdown    []StatusCount `json:"offerBreakdown"`
	OffersVsDonations struct {
		Offers    int64 `json:"offers"`
		Donations int64 `json:"donations"`
	} `json:"offersVsDonations"`
}

// GetVolunteerStats builds the volunteer dashboard as of now.
func GetVolunteerStats(ctx context.Context, db *mongo.Database, now time.Time) (VolunteerStats, error) {
	donations := db.Collection("donations")
	offers := db.Collection("offers")

	var out VolunteerStats
	var err error

	if out.AssignedDonations, err = donations.CountDocuments(ctx, bson.M{"status": bson.M{"$ne": lifecycle.DonationRejected}}); err != nil {
		return VolunteerStats{}, err
	}
	if out.PendingOffers, err = offers.CountDocuments(ctx, bson.M{"status": lifecycle.OfferUnpaid}); err != nil {
		return VolunteerStats{}, err
	}
	if out.OffersVsDonations.Offers, err = offers.CountDocuments(ctx, bson.M{}); err != nil {
		return VolunteerStats{}, err
	}
	if out.OffersVsDonations.Donations, err = donations.CountDocuments(ctx, bson.M{}); err != nil {
		return VolunteerStats{}, err
	}

	if out.OfferBreakdown, err = offerBreakdown(ctx, offers); err != nil {
		return VolunteerStats{}, err
	}
	if out.DonationTrends, err = donationTrend(ctx, donations, now); err != nil {
		return VolunteerStats{}, err
	}
	return out, nil
}

// offerBreakdown counts offers per status, listing every status.
func offerBreakdown(ctx context.Context, offers *mongo.Collection) ([]StatusCount, error) {
	counts, err := countBy(ctx, offers, bson.M{}, "$status")
	if err != nil {
		return nil, err
	}
	out := make([]StatusCount, 0, 3)
	for _, s := range []lifecycle.OfferStatus{lifecycle.OfferUnpaid, lifecycle.OfferPaid, lifecycle.OfferCompleted} {
		out = append(out, StatusCount{Status: string(s), Count: counts[string(s)]})
	}
	return out, nil
}

// donationTrend counts donations per month for the last TrendMonths
// months including the current one, oldest first, zero-filled.
func donationTrend(ctx context.Context, donations *mongo.Collection, now time.Time) ([]MonthCount, error) {
	months := lastMonths(now, TrendMonths)
	since, _ := time.Parse("2006-01", months[0])

	counts, err := countBy(ctx, donations,
		bson.M{"created_at": bson.M{"$gte": since}},
		bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$created_at", "timezone": "UTC"}})
	if err != nil {
		return nil, err
	}
	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out, nil
}

func countBy(ctx context.Context, c *mongo.Collection, match bson.M, key any) (map[string]int64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": key, "count": bson.M{"$sum": 1}}}},
	}
	cur, err := c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Key   string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Key] = row.Count
	}
	return out, cur.Err()
}
