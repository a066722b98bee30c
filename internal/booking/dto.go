package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
)

// BookingDTO is the API-facing shape of a booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	RestaurantID    uuid.UUID `json:"restaurant_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	ReservationTime time.Time `json:"reservation_time"`
	PartySize       int       `json:"party_size"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToDTO converts a booking model into its API shape.
func ToDTO(booking *models.Booking) *BookingDTO {
	if booking == nil {
		return nil
	}
	return &BookingDTO{
		ID:              booking.ID,
		RestaurantID:    booking.RestaurantID,
		CustomerName:    booking.CustomerName,
		CustomerPhone:   booking.CustomerPhone,
		ReservationTime: booking.ReservationTime,
		PartySize:       booking.PartySize,
		CreatedAt:       booking.CreatedAt,
	}
}

// ToDTOs converts a slice of bookings, preserving order.
func ToDTOs(bookings []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, *ToDTO(&bookings[i]))
	}
	return out
}
