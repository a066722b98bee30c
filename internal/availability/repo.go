package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

// Repository mutates the per-(restaurant, date) slot ledger. The
// check-then-write in Reserve and Release is a single conditional UPDATE so
// that concurrent callers can never both observe and consume the same slots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Reserve(ctx context.Context, restaurantID uuid.UUID, date time.Time, amount int) error
	Release(ctx context.Context, restaurantID uuid.UUID, date time.Time, amount int) error
	SetSlots(ctx context.Context, restaurantID uuid.UUID, date time.Time, slots int) error
	Get(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.AvailabilityEntry, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error)
	SeedMissing(ctx context.Context, restaurantID uuid.UUID, dates []time.Time, slots int) (int64, error)
	RestaurantCapacity(ctx context.Context, restaurantID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Reserve decrements available_slots when at least amount slots remain. A
// missing entry means the restaurant has no seating tracked for that date and
// is never treated as open capacity.
func (r *repository) Reserve(ctx context.Context, restaurantID uuid.UUID, date time.Time, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve amount must be positive")
	}
	date = types.DateOnly(date)

	res := r.db.WithContext(ctx).Exec(`
		UPDATE availability_entries
		SET available_slots = available_slots - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE restaurant_id = ? AND date = ? AND available_slots >= ?
	`, amount, restaurantID, date, amount)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve slots")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	exists, err := r.entryExists(ctx, restaurantID, date)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no availability tracked for this date")
	}
	return pkgerrors.New(pkgerrors.CodeNoAvailability, "no available slots at the requested time")
}

// Release credits amount back to the entry, bounded by the restaurant's
// capacity. Crediting past capacity means bookings and the ledger have
// diverged; that is surfaced as an integrity fault, not clamped away.
func (r *repository) Release(ctx context.Context, restaurantID uuid.UUID, date time.Time, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release amount must be positive")
	}
	date = types.DateOnly(date)

	res := r.db.WithContext(ctx).Exec(`
		UPDATE availability_entries
		SET available_slots = available_slots + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE restaurant_id = ? AND date = ?
			AND available_slots + ? <= (
				SELECT capacity FROM restaurants WHERE restaurants.id = availability_entries.restaurant_id
			)
	`, amount, restaurantID, date, amount)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release slots")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	exists, err := r.entryExists(ctx, restaurantID, date)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no availability tracked for this date")
	}
	return pkgerrors.New(pkgerrors.CodeIntegrity, "release would exceed restaurant capacity")
}

// SetSlots overwrites the entry for a date, creating it when absent.
func (r *repository) SetSlots(ctx context.Context, restaurantID uuid.UUID, date time.Time, slots int) error {
	if slots < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "slots must not be negative")
	}
	date = types.DateOnly(date)

	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO availability_entries (restaurant_id, date, available_slots, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (restaurant_id, date)
		DO UPDATE SET available_slots = excluded.available_slots, updated_at = CURRENT_TIMESTAMP
	`, restaurantID, date, slots)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "set slots")
	}
	return nil
}

func (r *repository) Get(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.AvailabilityEntry, error) {
	var entry models.AvailabilityEntry
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND date = ?", restaurantID, types.DateOnly(date)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no availability tracked for this date")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load availability entry")
	}
	return &entry, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error) {
	var entries []models.AvailabilityEntry
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list availability entries")
	}
	return entries, nil
}

// SeedMissing inserts entries at the given slot count for any of the dates
// that do not exist yet, returning how many were created. Existing entries
// are left untouched so live counters are never reset.
func (r *repository) SeedMissing(ctx context.Context, restaurantID uuid.UUID, dates []time.Time, slots int) (int64, error) {
	if slots < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "slots must not be negative")
	}
	var created int64
	for _, date := range dates {
		res := r.db.WithContext(ctx).Exec(`
			INSERT INTO availability_entries (restaurant_id, date, available_slots, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (restaurant_id, date) DO NOTHING
		`, restaurantID, types.DateOnly(date), slots)
		if res.Error != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "seed availability entry")
		}
		created += res.RowsAffected
	}
	return created, nil
}

func (r *repository) RestaurantCapacity(ctx context.Context, restaurantID uuid.UUID) (int, error) {
	var capacity int
	err := r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Select("capacity").
		Where("id = ?", restaurantID).
		Take(&capacity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant capacity")
	}
	return capacity, nil
}

func (r *repository) entryExists(ctx context.Context, restaurantID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AvailabilityEntry{}).
		Where("restaurant_id = ? AND date = ?", restaurantID, date).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check availability entry")
	}
	return count > 0, nil
}
