package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

// Repository is the reservation store: plain CRUD over bookings with no
// availability logic. Capacity accounting lives in the ledger and is
// orchestrated by the Service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Booking, error)
	SumPartySizes(ctx context.Context, restaurantID uuid.UUID, date time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reservation store bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}

// ListByRestaurant returns bookings in insertion order.
func (r *repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC, id ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// SumPartySizes totals the seats held by bookings for one restaurant on one
// calendar date. Used by the ledger audit to cross-check availability counters.
func (r *repository) SumPartySizes(ctx context.Context, restaurantID uuid.UUID, date time.Time) (int, error) {
	start := types.DateOnly(date)
	end := start.AddDate(0, 0, 1)

	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(party_size), 0)").
		Where("restaurant_id = ? AND reservation_time >= ? AND reservation_time < ?", restaurantID, start, end).
		Take(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
