package volunteerstore_test

import (
	"errors"
	"testing"

	volunteerstore "github.com/dalemusser/donorhub/internal/app/store/volunteers"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"github.com/dalemusser/donorhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDBWithIndexes(t)
	store := volunteerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v, err := store.Create(ctx, models.Volunteer{Name: " Ravi  Kumar ", Phone: "+91 98765-43210", Email: "Ravi@Example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if v.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if v.Name != "Ravi Kumar" || v.Phone != "+919876543210" || v.Email != "ravi@example.com" {
		t.Errorf("unexpected normalization: %+v", v)
	}
	if v.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
}

func TestStore_Create_Duplicates(t *testing.T) {
	db := testutil.SetupTestDBWithIndexes(t)
	store := volunteerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Volunteer{Name: "A", Phone: "111", Email: "a@example.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		v    models.Volunteer
		want error
	}{
		{"same phone", models.Volunteer{Name: "B", Phone: "111", Email: "b@example.com"}, volunteerstore.ErrDuplicatePhone},
		{"same email", models.Volunteer{Name: "C", Phone: "222", Email: "A@example.com"}, volunteerstore.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.v)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStore_GetByName_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := volunteerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v := fixtures.CreateVolunteer(ctx, "Ravi Kumar", "111", "ravi@example.com")

	got, err := store.GetByName(ctx, "  RAVI kumar ")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.ID != v.ID {
		t.Errorf("got %v, want %v", got.ID, v.ID)
	}

	if _, err := store.GetByName(ctx, "Nobody"); !errors.Is(err, volunteerstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Directory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := volunteerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateVolunteer(ctx, "Zara", "1", "z@example.com")
	fixtures.CreateVolunteer(ctx, "Arun", "2", "a@example.com")

	dir, err := store.Directory(ctx)
	if err != nil {
		t.Fatalf("Directory failed: %v", err)
	}
	if len(dir) != 2 || dir[0].Name != "Arun" || dir[1].Name != "Zara" {
		t.Errorf("unexpected directory: %+v", dir)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := volunteerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v := fixtures.CreateVolunteer(ctx, "Ravi", "111", "ravi@example.com")

	got, err := store.Update(ctx, v.ID, models.Volunteer{Phone: "999"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Phone != "999" || got.Name != "Ravi" {
		t.Errorf("unexpected after update: %+v", got)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), models.Volunteer{Name: "X"}); !errors.Is(err, volunteerstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, v.ID); !errors.Is(err, volunteerstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	ok, err := store.Exists(ctx, v.ID)
	if err != nil || ok {
		t.Errorf("Exists = %v, %v; want false, nil", ok, err)
	}
}
