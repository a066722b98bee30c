package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityEntry is the per-(restaurant, date) slot counter. The invariant
// 0 <= available_slots <= restaurant.capacity holds after every committed
// booking lifecycle transition.
type AvailabilityEntry struct {
	RestaurantID   uuid.UUID `gorm:"column:restaurant_id;type:uuid;primaryKey"`
	Date           time.Time `gorm:"column:date;type:date;primaryKey"`
	AvailableSlots int       `gorm:"column:available_slots;not null;default:0"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
