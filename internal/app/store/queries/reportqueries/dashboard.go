package reportqueries

import (
	"context"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DashboardStats is the admin dashboard headline.
type DashboardStats struct {
	TotalDonations int64 `json:"totalDonations"` // approved donations
	TotalOffers    int64 `json:"totalOffers"`    // paid offers
}

// Dashboard counts approved donations and paid offers.
func Dashboard(ctx context.Context, db *mongo.Database) (DashboardStats, error) {
	var out DashboardStats
	var err error
	out.TotalDonations, err = db.Collection("donations").CountDocuments(ctx, bson.M{"status": lifecycle.DonationApproved})
	if err != nil {
		return DashboardStats{}, err
	}
	out.TotalOffers, err = db.Collection("offers").CountDocuments(ctx, bson.M{"status": lifecycle.OfferPaid})
	if err != nil {
		return DashboardStats{}, err
	}
	return out, nil
}
