// internal/app/store/volunteers/volunteerstore.go
package volunteerstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/donorhub/internal/app/system/normalize"
	"github.com/dalemusser/donorhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicatePhone = errors.New("a volunteer with this phone number already exists")
	ErrDuplicateEmail = errors.New("a volunteer with this email already exists")
	ErrNotFound       = errors.New("volunteer not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("volunteers")}
}

// dupError maps a unique-index violation to the field it concerns. The
// index name appears in the server's error message.
func dupError(err error) error {
	if strings.Contains(err.Error(), "uniq_volunteers_email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicatePhone
}

func (s *Store) Create(ctx context.Context, v models.Volunteer) (models.Volunteer, error) {
	now := time.Now().UTC()
	v.ID = primitive.NewObjectID()
	v.Name = normalize.Name(v.Name)
	v.NameCI = text.Fold(v.Name)
	v.Phone = normalize.Phone(v.Phone)
	v.Email = normalize.Email(v.Email)
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Volunteer{}, dupError(err)
		}
		return models.Volunteer{}, err
	}
	return v, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Volunteer, error) {
	var v models.Volunteer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Volunteer{}, ErrNotFound
		}
		return models.Volunteer{}, err
	}
	return v, nil
}

// GetByName finds a volunteer by case- and diacritic-insensitive name.
// With several matches the oldest record wins.
func (s *Store) GetByName(ctx context.Context, name string) (models.Volunteer, error) {
	var v models.Volunteer
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(normalize.Name(name))}, opts).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Volunteer{}, ErrNotFound
		}
		return models.Volunteer{}, err
	}
	return v, nil
}

// List returns all volunteers ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Volunteer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Volunteer, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DirectoryEntry is the public projection of a volunteer.
type DirectoryEntry struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// Directory returns id and name for every volunteer, ordered by name.
func (s *Store) Directory(ctx context.Context) ([]DirectoryEntry, error) {
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]DirectoryEntry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a volunteer's non-empty fields and refreshes UpdatedAt.
// It returns the updated record.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, v models.Volunteer) (models.Volunteer, error) {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if n := normalize.Name(v.Name); n != "" {
		set["name"] = n
		set["name_ci"] = text.Fold(n)
	}
	if p := normalize.Phone(v.Phone); p != "" {
		set["phone"] = p
	}
	if e := normalize.Email(v.Email); e != "" {
		set["email"] = e
	}

	var out models.Volunteer
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Volunteer{}, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.Volunteer{}, dupError(err)
		}
		return models.Volunteer{}, err
	}
	return out, nil
}

// Delete removes a volunteer by ID. Returns ErrNotFound when absent.
// Donations and offers keep their reference; lookups then surface it as unknown.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether a volunteer with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
