package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
)

type restaurantLister interface {
	List(ctx context.Context) ([]models.Restaurant, error)
}

type horizonSeeder interface {
	SeedHorizon(ctx context.Context, restaurantID uuid.UUID, from time.Time, days int) (int64, error)
}

// AvailabilityHorizonJobParams configures the forward availability seeding.
type AvailabilityHorizonJobParams struct {
	Logger       *logger.Logger
	Restaurants  restaurantLister
	Availability horizonSeeder
	HorizonDays  int
}

// NewAvailabilityHorizonJob builds the job that keeps every restaurant's
// availability ledger seeded for the configured number of days ahead.
func NewAvailabilityHorizonJob(params AvailabilityHorizonJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Restaurants == nil {
		return nil, fmt.Errorf("restaurant lister required")
	}
	if params.Availability == nil {
		return nil, fmt.Errorf("availability service required")
	}
	days := params.HorizonDays
	if days < 1 {
		days = 7
	}
	return &availabilityHorizonJob{
		logg:         params.Logger,
		restaurants:  params.Restaurants,
		availability: params.Availability,
		days:         days,
		now:          time.Now,
	}, nil
}

type availabilityHorizonJob struct {
	logg         *logger.Logger
	restaurants  restaurantLister
	availability horizonSeeder
	days         int
	now          func() time.Time
}

func (j *availabilityHorizonJob) Name() string { return "availability-horizon" }

// Run seeds missing entries at full capacity. A failure for one restaurant
// does not stop the others; errors are accumulated and reported together.
func (j *availabilityHorizonJob) Run(ctx context.Context) error {
	restaurants, err := j.restaurants.List(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}

	from := j.now().UTC()
	var errs []error
	var created int64
	for _, restaurant := range restaurants {
		n, err := j.availability.SeedHorizon(ctx, restaurant.ID, from, j.days)
		if err != nil {
			errs = append(errs, fmt.Errorf("seed %s: %w", restaurant.ID, err))
			continue
		}
		created += n
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"restaurants": len(restaurants),
		"created":     created,
	})
	j.logg.Info(logCtx, "availability horizon seeding complete")
	return multierr.Combine(errs...)
}
