package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is catalog reference data; immutable after creation as far as
// the booking engine is concerned.
type Restaurant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Capacity    int       `gorm:"column:capacity;not null"`
	OpeningTime string    `gorm:"column:opening_time;not null"`
	ClosingTime string    `gorm:"column:closing_time;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
