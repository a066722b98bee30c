package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
)

const clockLayout = "15:04"

// Service exposes restaurant catalog operations.
type Service interface {
	CreateRestaurant(ctx context.Context, input CreateRestaurantInput) (*models.Restaurant, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

// CreateRestaurantInput captures the data a new restaurant requires.
type CreateRestaurantInput struct {
	Name        string
	Capacity    int
	OpeningTime string
	ClosingTime string
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateRestaurant(ctx context.Context, input CreateRestaurantInput) (*models.Restaurant, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}
	if input.Capacity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must be at least 1")
	}
	opening, err := time.Parse(clockLayout, input.OpeningTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid opening time (expected HH:MM)")
	}
	closing, err := time.Parse(clockLayout, input.ClosingTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid closing time (expected HH:MM)")
	}
	if !closing.After(opening) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing time must be after opening time")
	}

	restaurant := &models.Restaurant{
		ID:          uuid.New(),
		Name:        input.Name,
		Capacity:    input.Capacity,
		OpeningTime: input.OpeningTime,
		ClosingTime: input.ClosingTime,
	}
	if err := s.repo.Create(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}
	return restaurant, nil
}

func (s *service) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	restaurants, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	return restaurants, nil
}

// WithinOperatingHours reports whether the clock component of the given time
// falls inside the restaurant's opening window.
func WithinOperatingHours(restaurant *models.Restaurant, at time.Time) bool {
	if restaurant == nil {
		return false
	}
	opening, err := time.Parse(clockLayout, restaurant.OpeningTime)
	if err != nil {
		return false
	}
	closing, err := time.Parse(clockLayout, restaurant.ClosingTime)
	if err != nil {
		return false
	}
	minutes := at.Hour()*60 + at.Minute()
	openMin := opening.Hour()*60 + opening.Minute()
	closeMin := closing.Hour()*60 + closing.Minute()
	return minutes >= openMin && minutes <= closeMin
}
