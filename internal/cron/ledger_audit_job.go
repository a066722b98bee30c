package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

type entryLister interface {
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error)
}

type partySummer interface {
	SumPartySizes(ctx context.Context, restaurantID uuid.UUID, date time.Time) (int, error)
}

// LedgerAuditJobParams configures the availability/bookings cross-check.
type LedgerAuditJobParams struct {
	Logger      *logger.Logger
	Restaurants restaurantLister
	Ledger      entryLister
	Bookings    partySummer
}

// NewLedgerAuditJob builds the job that recomputes booked seats per
// (restaurant, date) and compares them against the stored counters. Drift is
// reported, never auto-corrected: a self-healing audit would mask the bug
// that caused the divergence.
func NewLedgerAuditJob(params LedgerAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Restaurants == nil {
		return nil, fmt.Errorf("restaurant lister required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	return &ledgerAuditJob{
		logg:        params.Logger,
		restaurants: params.Restaurants,
		ledger:      params.Ledger,
		bookings:    params.Bookings,
	}, nil
}

type ledgerAuditJob struct {
	logg        *logger.Logger
	restaurants restaurantLister
	ledger      entryLister
	bookings    partySummer
}

func (j *ledgerAuditJob) Name() string { return "ledger-audit" }

func (j *ledgerAuditJob) Run(ctx context.Context) error {
	restaurants, err := j.restaurants.List(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}

	var errs []error
	var checked, drifted int
	for _, restaurant := range restaurants {
		entries, err := j.ledger.ListByRestaurant(ctx, restaurant.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("list entries for %s: %w", restaurant.ID, err))
			continue
		}
		for _, entry := range entries {
			booked, err := j.bookings.SumPartySizes(ctx, restaurant.ID, entry.Date)
			if err != nil {
				errs = append(errs, fmt.Errorf("sum bookings for %s on %s: %w",
					restaurant.ID, types.FormatDate(entry.Date), err))
				continue
			}
			checked++
			expected := restaurant.Capacity - booked
			if entry.AvailableSlots == expected {
				continue
			}
			drifted++
			faultCtx := j.logg.WithFields(ctx, map[string]any{
				"restaurant_id":   restaurant.ID.String(),
				"date":            types.FormatDate(entry.Date),
				"available_slots": entry.AvailableSlots,
				"expected_slots":  expected,
				"booked_seats":    booked,
				"capacity":        restaurant.Capacity,
			})
			j.logg.Error(faultCtx, "availability ledger drifted from bookings", nil)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"checked": checked,
		"drifted": drifted,
	})
	j.logg.Info(logCtx, "ledger audit complete")
	return multierr.Combine(errs...)
}
