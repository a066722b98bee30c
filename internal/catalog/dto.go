package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
)

// RestaurantDTO is the API-facing shape of a restaurant.
type RestaurantDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToDTO converts a restaurant model into its API shape.
func ToDTO(restaurant *models.Restaurant) *RestaurantDTO {
	if restaurant == nil {
		return nil
	}
	return &RestaurantDTO{
		ID:          restaurant.ID,
		Name:        restaurant.Name,
		Capacity:    restaurant.Capacity,
		OpeningTime: restaurant.OpeningTime,
		ClosingTime: restaurant.ClosingTime,
		CreatedAt:   restaurant.CreatedAt,
	}
}
