package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pushkala9-bommu/tablebook-backend/api/responses"
	"github.com/pushkala9-bommu/tablebook-backend/api/validators"
	bookingsvc "github.com/pushkala9-bommu/tablebook-backend/internal/booking"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
)

type createBookingRequest struct {
	RestaurantID    uuid.UUID `json:"restaurant_id" validate:"required"`
	CustomerName    string    `json:"customer_name" validate:"required,max=120"`
	CustomerPhone   string    `json:"customer_phone" validate:"required,phone"`
	ReservationTime string    `json:"reservation_time" validate:"required"`
	PartySize       int       `json:"party_size" validate:"required,min=1"`
}

type modifyBookingRequest struct {
	ReservationTime *string `json:"reservation_time,omitempty"`
	PartySize       *int    `json:"party_size,omitempty" validate:"omitempty,min=1"`
}

// CreateBooking handles POST /api/v1/bookings.
func CreateBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		when, err := validators.ParseReservationTime(payload.ReservationTime)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Book(r.Context(), bookingsvc.BookInput{
			RestaurantID:    payload.RestaurantID,
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			ReservationTime: when,
			PartySize:       payload.PartySize,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, bookingsvc.ToDTO(booking))
	}
}

// ModifyBooking handles PATCH /api/v1/bookings/{bookingId}.
func ModifyBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		bookingID, err := pathUUID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload modifyBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input bookingsvc.ModifyInput
		if payload.ReservationTime != nil {
			var when time.Time
			when, err = validators.ParseReservationTime(*payload.ReservationTime)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ReservationTime = &when
		}
		input.PartySize = payload.PartySize

		booking, err := svc.Modify(r.Context(), bookingID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookingsvc.ToDTO(booking))
	}
}

// CancelBooking handles DELETE /api/v1/bookings/{bookingId}.
func CancelBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		bookingID, err := pathUUID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), bookingID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// GetBooking handles GET /api/v1/bookings/{bookingId}.
func GetBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		bookingID, err := pathUUID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookingsvc.ToDTO(booking))
	}
}

// ListRestaurantBookings handles GET /api/v1/staff/restaurants/{restaurantId}/bookings.
func ListRestaurantBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		restaurantID, err := pathUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookings, err := svc.ListByRestaurant(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookingsvc.ToDTOs(bookings))
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
			WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
