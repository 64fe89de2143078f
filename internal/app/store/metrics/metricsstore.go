package metricsstore

import (
	"context"

	"github.com/dalemusser/donorhub/internal/domain/lifecycle"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown beside the admin dashboard headline.
type Counts struct {
	Donors           int64 `json:"donors"`
	VolunteerUsers   int64 `json:"volunteerUsers"`
	Volunteers       int64 `json:"volunteers"` // registry entries
	PendingDonations int64 `json:"pendingDonations"`
	UnpaidOffers     int64 `json:"unpaidOffers"`
}

// FetchDashboardCounts returns the high-level counts used by the admin
// dashboard. Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	count := func(coll string, filter bson.M, dst *int64) {
		if n, err := db.Collection(coll).CountDocuments(ctx, filter); err == nil {
			*dst = n
		}
	}

	count("users", bson.M{"role": models.RoleDonor}, &out.Donors)
	count("users", bson.M{"role": models.RoleVolunteer}, &out.VolunteerUsers)
	count("volunteers", bson.M{}, &out.Volunteers)
	count("donations", bson.M{"status": lifecycle.DonationPending}, &out.PendingDonations)
	count("offers", bson.M{"status": lifecycle.OfferUnpaid}, &out.UnpaidOffers)

	return out
}
