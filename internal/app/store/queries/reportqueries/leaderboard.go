package reportqueries

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LeaderboardSize is how many rows each ranking returns.
const LeaderboardSize = 5

// Unknown is shown for a reference that no longer resolves.
const Unknown = "Unknown"

// DonorRank is one row of the donor ranking.
type DonorRank struct {
	DonorID     *primitive.ObjectID `json:"donorId,omitempty"`
	Name        string              `json:"name"`
	Email       string              `json:"email,omitempty"`
	TotalAmount float64             `json:"totalAmount"`
	Count       int64               `json:"count"`
}

// VolunteerRank is one row of the volunteer ranking.
type VolunteerRank struct {
	VolunteerID  primitive.ObjectID `json:"volunteerId"`
	Name         string             `json:"name"`
	TotalManaged float64            `json:"totalManaged"`
	Count        int64              `json:"count"`
}

// Leaderboard holds both rankings.
type Leaderboard struct {
	TopDonors     []DonorRank     `json:"topDonors"`
	TopVolunteers []VolunteerRank `json:"topVolunteers"`
}

type rankRow struct {
	Key   any     `bson:"_id"`
	Total float64 `bson:"total"`
	Count int64   `bson:"count"`
}

// topBy groups donations by key, sums amounts, and returns the top rows.
// Ties keep insertion order via the smallest _id in each group.
func topBy(ctx context.Context, db *mongo.Database, match bson.M, key any) ([]rankRow, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   key,
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
			"first": bson.M{"$min": "$_id"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "first", Value: 1}}}},
		{{Key: "$limit", Value: LeaderboardSize}},
	}
	cur, err := db.Collection("donations").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]rankRow, 0, LeaderboardSize)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type party struct {
	Name  string
	Email string
}

func lookupParties(ctx context.Context, c *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]party, error) {
	out := make(map[primitive.ObjectID]party, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Name  string             `bson:"name"`
			Email string             `bson:"email"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = party{Name: row.Name, Email: row.Email}
	}
	return out, cur.Err()
}

// TopDonors ranks donors by summed amount. Donations with a donor account
// group by it; the rest group by their stored donor name.
func TopDonors(ctx context.Context, db *mongo.Database) ([]DonorRank, error) {
	rows, err := topBy(ctx, db, bson.M{}, bson.M{"$ifNull": bson.A{"$donor", "$donor_name"}})
	if err != nil {
		return nil, err
	}

	var ids []primitive.ObjectID
	for _, r := range rows {
		if oid, ok := r.Key.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	users, err := lookupParties(ctx, db.Collection("users"), ids)
	if err != nil {
		return nil, err
	}

	out := make([]DonorRank, 0, len(rows))
	for _, r := range rows {
		d := DonorRank{Name: Unknown, TotalAmount: r.Total, Count: r.Count}
		switch k := r.Key.(type) {
		case primitive.ObjectID:
			d.DonorID = &k
			d.Email = Unknown
			if p, ok := users[k]; ok {
				d.Name, d.Email = p.Name, p.Email
			}
		case string:
			if k != "" {
				d.Name = k
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// TopVolunteers ranks volunteers by summed amount of the donations they
// handled. Donations without a volunteer are excluded.
func TopVolunteers(ctx context.Context, db *mongo.Database) ([]VolunteerRank, error) {
	rows, err := topBy(ctx, db, bson.M{"volunteer": bson.M{"$type": "objectId"}}, "$volunteer")
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		if oid, ok := r.Key.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	vols, err := lookupParties(ctx, db.Collection("volunteers"), ids)
	if err != nil {
		return nil, err
	}

	out := make([]VolunteerRank, 0, len(rows))
	for _, r := range rows {
		oid, _ := r.Key.(primitive.ObjectID)
		v := VolunteerRank{VolunteerID: oid, Name: Unknown, TotalManaged: r.Total, Count: r.Count}
		if p, ok := vols[oid]; ok {
			v.Name = p.Name
		}
		out = append(out, v)
	}
	return out, nil
}

// GetLeaderboard returns both rankings.
func GetLeaderboard(ctx context.Context, db *mongo.Database) (Leaderboard, error) {
	donors, err := TopDonors(ctx, db)
	if err != nil {
		return Leaderboard{}, err
	}
	vols, err := TopVolunteers(ctx, db)
	if err != nil {
		return Leaderboard{}, err
	}
	return Leaderboard{TopDonors: donors, TopVolunteers: vols}, nil
}

// NameRank is one row of the donor-name ranking.
type NameRank struct {
	Name        string  `json:"name"`
	TotalAmount float64 `json:"totalAmount"`
}

// AdminLeaderboard is the admin dashboard ranking.
type AdminLeaderboard struct {
	TopDonors     []NameRank      `json:"topDonors"`
	TopVolunteers []VolunteerRank `json:"topVolunteers"`
}

// GetAdminLeaderboard ranks by stored donor name rather than account, so
// walk-in and converted donations under the same name are pooled.
func GetAdminLeaderboard(ctx context.Context, db *mongo.Database) (AdminLeaderboard, error) {
	rows, err := topBy(ctx, db, bson.M{}, "$donor_name")
	if err != nil {
		return AdminLeaderboard{}, err
	}
	donors := make([]NameRank, 0, len(rows))
	for _, r := range rows {
		name, _ := r.Key.(string)
		if name == "" {
			name = Unknown
		}
		donors = append(donors, NameRank{Name: name, TotalAmount: r.Total})
	}
	vols, err := TopVolunteers(ctx, db)
	if err != nil {
		return AdminLeaderboard{}, err
	}
	return AdminLeaderboard{TopDonors: donors, TopVolunteers: vols}, nil
}
