package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

// Service exposes the staff-facing ledger surface. The booking engine talks
// to the Repository directly so its mutations share the engine's transaction.
type Service interface {
	SetAvailability(ctx context.Context, restaurantID uuid.UUID, date time.Time, slots int) (*models.AvailabilityEntry, error)
	Adjust(ctx context.Context, restaurantID uuid.UUID, date time.Time, delta int) (*models.AvailabilityEntry, error)
	GetEntry(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.AvailabilityEntry, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error)
	SeedHorizon(ctx context.Context, restaurantID uuid.UUID, from time.Time, days int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService wires an availability service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	return &service{repo: repo}, nil
}

// SetAvailability is the staff override: it validates slots against the
// restaurant's capacity and upserts the entry.
func (s *service) SetAvailability(ctx context.Context, restaurantID uuid.UUID, date time.Time, slots int) (*models.AvailabilityEntry, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if slots < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slots must not be negative")
	}

	capacity, err := s.repo.RestaurantCapacity(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if slots > capacity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("slots cannot exceed restaurant capacity (%d)", capacity))
	}

	if err := s.repo.SetSlots(ctx, restaurantID, date, slots); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, restaurantID, date)
}

// Adjust applies a staff-driven correction as a relative delta, with the same
// bounds checks as the booking lifecycle mutations.
func (s *service) Adjust(ctx context.Context, restaurantID uuid.UUID, date time.Time, delta int) (*models.AvailabilityEntry, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	switch {
	case delta == 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	case delta > 0:
		if err := s.repo.Release(ctx, restaurantID, date, delta); err != nil {
			return nil, err
		}
	default:
		if err := s.repo.Reserve(ctx, restaurantID, date, -delta); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, restaurantID, date)
}

func (s *service) GetEntry(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.AvailabilityEntry, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	return s.repo.Get(ctx, restaurantID, date)
}

func (s *service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	return s.repo.ListByRestaurant(ctx, restaurantID)
}

// SeedHorizon creates missing entries at full capacity for the next `days`
// dates starting at `from`. Existing entries keep their current counters.
func (s *service) SeedHorizon(ctx context.Context, restaurantID uuid.UUID, from time.Time, days int) (int64, error) {
	if restaurantID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if days < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "days must be at least 1")
	}

	capacity, err := s.repo.RestaurantCapacity(ctx, restaurantID)
	if err != nil {
		return 0, err
	}

	start := types.DateOnly(from)
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return s.repo.SeedMissing(ctx, restaurantID, dates, capacity)
}
