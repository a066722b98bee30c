package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is an active reservation. The date component of ReservationTime
// must match an availability entry for the restaurant.
type Booking struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID    uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	CustomerName    string    `gorm:"column:customer_name;not null"`
	CustomerPhone   string    `gorm:"column:customer_phone;not null"`
	ReservationTime time.Time `gorm:"column:reservation_time;not null"`
	PartySize       int       `gorm:"column:party_size;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
