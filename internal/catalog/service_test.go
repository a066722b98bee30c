package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, restaurant *models.Restaurant) error
	findFn   func(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	if f.createFn != nil {
		return f.createFn(ctx, restaurant)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	return nil, nil
}

func TestCreateRestaurant(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.Restaurant
	repo.createFn = func(ctx context.Context, restaurant *models.Restaurant) error {
		created = restaurant
		return nil
	}

	got, err := svc.CreateRestaurant(context.Background(), CreateRestaurantInput{
		Name:        "The Gourmet Haven",
		Capacity:    100,
		OpeningTime: "10:00",
		ClosingTime: "23:00",
	})
	if err != nil {
		t.Fatalf("CreateRestaurant error: %v", err)
	}
	if created == nil {
		t.Fatal("expected restaurant to be persisted")
	}
	if got.ID == uuid.Nil {
		t.Fatal("expected generated restaurant id")
	}
	if got.Capacity != 100 || got.Name != "The Gourmet Haven" {
		t.Fatalf("unexpected restaurant data: %+v", got)
	}
}

func TestCreateRestaurantValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		input CreateRestaurantInput
	}{
		{name: "missing name", input: CreateRestaurantInput{Capacity: 10, OpeningTime: "10:00", ClosingTime: "22:00"}},
		{name: "zero capacity", input: CreateRestaurantInput{Name: "x", OpeningTime: "10:00", ClosingTime: "22:00"}},
		{name: "bad opening", input: CreateRestaurantInput{Name: "x", Capacity: 10, OpeningTime: "ten", ClosingTime: "22:00"}},
		{name: "bad closing", input: CreateRestaurantInput{Name: "x", Capacity: 10, OpeningTime: "10:00", ClosingTime: "late"}},
		{name: "closing before opening", input: CreateRestaurantInput{Name: "x", Capacity: 10, OpeningTime: "22:00", ClosingTime: "10:00"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRestaurant(context.Background(), tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetRestaurantNotFound(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.GetRestaurant(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWithinOperatingHours(t *testing.T) {
	restaurant := &models.Restaurant{OpeningTime: "10:00", ClosingTime: "23:00"}

	at := func(hour, min int) time.Time {
		return time.Date(2025, 2, 10, hour, min, 0, 0, time.UTC)
	}

	if !WithinOperatingHours(restaurant, at(10, 0)) {
		t.Fatal("opening minute should be inside the window")
	}
	if !WithinOperatingHours(restaurant, at(19, 30)) {
		t.Fatal("evening slot should be inside the window")
	}
	if !WithinOperatingHours(restaurant, at(23, 0)) {
		t.Fatal("closing minute should be inside the window")
	}
	if WithinOperatingHours(restaurant, at(9, 59)) {
		t.Fatal("before opening should be outside the window")
	}
	if WithinOperatingHours(restaurant, at(23, 1)) {
		t.Fatal("after closing should be outside the window")
	}
}
