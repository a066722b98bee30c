package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/internal/availability"
	"github.com/pushkala9-bommu/tablebook-backend/internal/catalog"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/metrics"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

// TxRunner executes a function inside a database transaction, rolling back
// when the function errors or panics.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the booking engine. Every lifecycle mutation runs as a single
// transaction pairing a ledger update with a reservation-store write, so the
// per-(restaurant, date) capacity invariant holds at every commit point.
type Service interface {
	Book(ctx context.Context, input BookInput) (*models.Booking, error)
	Modify(ctx context.Context, bookingID uuid.UUID, input ModifyInput) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Booking, error)
}

// BookInput carries a booking request.
type BookInput struct {
	RestaurantID    uuid.UUID
	CustomerName    string
	CustomerPhone   string
	ReservationTime time.Time
	PartySize       int
}

// ModifyInput carries a partial update: nil fields keep their current value.
type ModifyInput struct {
	ReservationTime *time.Time
	PartySize       *int
}

type service struct {
	tx           TxRunner
	bookings     Repository
	ledger       availability.Repository
	restaurants  catalog.Repository
	metrics      *metrics.BookingMetrics
	logg         *logger.Logger
	maxPartySize int
}

// NewService wires the booking engine. metrics may be nil.
func NewService(
	tx TxRunner,
	bookings Repository,
	ledger availability.Repository,
	restaurants catalog.Repository,
	bookingMetrics *metrics.BookingMetrics,
	logg *logger.Logger,
	maxPartySize int,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxPartySize < 1 {
		maxPartySize = 1
	}
	return &service{
		tx:           tx,
		bookings:     bookings,
		ledger:       ledger,
		restaurants:  restaurants,
		metrics:      bookingMetrics,
		logg:         logg,
		maxPartySize: maxPartySize,
	}, nil
}

// Book reserves slots and records the booking atomically. A reserve failure
// or a store failure rolls the whole transaction back, so the ledger is never
// left decremented without a matching booking.
func (s *service) Book(ctx context.Context, input BookInput) (booking *models.Booking, err error) {
	defer s.observe("book", time.Now(), &err)

	if err := s.validateBookInput(input); err != nil {
		return nil, err
	}

	restaurant, err := s.loadRestaurant(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !catalog.WithinOperatingHours(restaurant, input.ReservationTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("reservation time must fall within operating hours (%s-%s)", restaurant.OpeningTime, restaurant.ClosingTime))
	}

	date := types.DateOnly(input.ReservationTime)
	booking = &models.Booking{
		ID:              uuid.New(),
		RestaurantID:    input.RestaurantID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		ReservationTime: input.ReservationTime,
		PartySize:       input.PartySize,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.WithTx(tx).Reserve(ctx, input.RestaurantID, date, input.PartySize); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.New(pkgerrors.CodeNoAvailability, "the restaurant is not taking bookings for that date")
			}
			return err
		}
		if err := s.bookings.WithTx(tx).Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithBookingID(ctx, booking.ID.String())
	s.logg.Info(s.logg.WithRestaurantID(ctx, booking.RestaurantID.String()), "booking confirmed")
	return booking, nil
}

// Modify updates a booking's time and/or party size, settling the ledger in
// the same transaction. A same-date change applies only the net seat delta; a
// cross-date change releases the old date and reserves the new one, with the
// two statements ordered by ascending date so concurrent modifies cannot
// deadlock. Validation runs against the full prospective booking, so shrinking
// an oversized party or moving a booking both re-check every bound.
func (s *service) Modify(ctx context.Context, bookingID uuid.UUID, input ModifyInput) (booking *models.Booking, err error) {
	defer s.observe("modify", time.Now(), &err)

	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	if input.ReservationTime == nil && input.PartySize == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to modify")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.bookings.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		current, err := store.FindByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		newTime := current.ReservationTime
		if input.ReservationTime != nil {
			newTime = *input.ReservationTime
		}
		newParty := current.PartySize
		if input.PartySize != nil {
			newParty = *input.PartySize
		}
		if newParty < 1 || newParty > s.maxPartySize {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("party size must be between 1 and %d", s.maxPartySize))
		}

		restaurant, err := s.loadRestaurantTx(ctx, tx, current.RestaurantID)
		if err != nil {
			return err
		}
		if !catalog.WithinOperatingHours(restaurant, newTime) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("reservation time must fall within operating hours (%s-%s)", restaurant.OpeningTime, restaurant.ClosingTime))
		}

		oldDate := types.DateOnly(current.ReservationTime)
		newDate := types.DateOnly(newTime)

		if oldDate.Equal(newDate) {
			delta := newParty - current.PartySize
			switch {
			case delta > 0:
				err = ledger.Reserve(ctx, current.RestaurantID, newDate, delta)
			case delta < 0:
				err = ledger.Release(ctx, current.RestaurantID, oldDate, -delta)
			}
			if err != nil {
				return err
			}
		} else {
			type ledgerOp struct {
				date    time.Time
				apply   func() error
			}
			release := ledgerOp{oldDate, func() error {
				return ledger.Release(ctx, current.RestaurantID, oldDate, current.PartySize)
			}}
			reserve := ledgerOp{newDate, func() error {
				err := ledger.Reserve(ctx, current.RestaurantID, newDate, newParty)
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					return pkgerrors.New(pkgerrors.CodeNoAvailability, "the restaurant is not taking bookings for that date")
				}
				return err
			}}

			// Fixed date ordering keeps concurrent cross-date modifies from
			// acquiring the two row locks in opposite order.
			ops := []ledgerOp{release, reserve}
			if ops[1].date.Before(ops[0].date) {
				ops[0], ops[1] = ops[1], ops[0]
			}
			for _, op := range ops {
				if err := op.apply(); err != nil {
					return err
				}
			}
		}

		current.ReservationTime = newTime
		current.PartySize = newParty
		if err := store.Update(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking")
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithBookingID(ctx, booking.ID.String()), "booking modified")
	return booking, nil
}

// Cancel releases the booking's slots and deletes it atomically. Cancelling
// an id twice reports NotFound on the second call, never a silent success.
func (s *service) Cancel(ctx context.Context, bookingID uuid.UUID) (err error) {
	defer s.observe("cancel", time.Now(), &err)

	if bookingID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.bookings.WithTx(tx)

		current, err := store.FindByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		date := types.DateOnly(current.ReservationTime)
		if err := s.ledger.WithTx(tx).Release(ctx, current.RestaurantID, date, current.PartySize); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeIntegrity) {
				s.logg.Error(s.logg.WithBookingID(ctx, bookingID.String()), "ledger out of sync with bookings", err)
			}
			return err
		}

		deleted, err := store.Delete(ctx, bookingID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete booking")
		}
		if deleted == 0 {
			return pkgerrors.New(pkgerrors.CodeIntegrity, "booking vanished mid-cancel")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logg.Info(s.logg.WithBookingID(ctx, bookingID.String()), "booking cancelled")
	return nil
}

func (s *service) Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

// ListByRestaurant is the staff view: bookings in the order they were taken.
func (s *service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Booking, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if _, err := s.loadRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return bookings, nil
}

func (s *service) validateBookInput(input BookInput) error {
	if input.RestaurantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if input.ReservationTime.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation time is required")
	}
	if input.PartySize < 1 || input.PartySize > s.maxPartySize {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("party size must be between 1 and %d", s.maxPartySize))
	}
	return nil
}

func (s *service) loadRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return s.loadRestaurantTx(ctx, nil, id)
}

func (s *service) loadRestaurantTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.restaurants.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) observe(op string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(op, time.Since(start))
	s.metrics.IncOutcome(op, outcomeLabel(*err))
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case pkgerrors.IsCode(err, pkgerrors.CodeNoAvailability):
		return "no_availability"
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return "not_found"
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return "invalid"
	case pkgerrors.IsCode(err, pkgerrors.CodeIntegrity):
		return "integrity_fault"
	default:
		return "error"
	}
}
