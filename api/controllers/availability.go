package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pushkala9-bommu/tablebook-backend/api/responses"
	"github.com/pushkala9-bommu/tablebook-backend/api/validators"
	availabilitysvc "github.com/pushkala9-bommu/tablebook-backend/internal/availability"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/db/models"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

type setAvailabilityRequest struct {
	AvailableSlots *int `json:"available_slots" validate:"required,min=0"`
}

type availabilityEntryResponse struct {
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	Date           string    `json:"date"`
	AvailableSlots int       `json:"available_slots"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newAvailabilityEntryResponse(entry *models.AvailabilityEntry) availabilityEntryResponse {
	return availabilityEntryResponse{
		RestaurantID:   entry.RestaurantID,
		Date:           types.FormatDate(entry.Date),
		AvailableSlots: entry.AvailableSlots,
		UpdatedAt:      entry.UpdatedAt,
	}
}

// SetAvailability handles PUT /api/v1/staff/restaurants/{restaurantId}/availability/{date}.
func SetAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		restaurantID, err := pathUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := validators.ParseDateParam(chi.URLParam(r, "date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setAvailabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.SetAvailability(r.Context(), restaurantID, date, *payload.AvailableSlots)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAvailabilityEntryResponse(entry))
	}
}

// GetAvailability handles GET /api/v1/staff/restaurants/{restaurantId}/availability/{date}.
func GetAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		restaurantID, err := pathUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := validators.ParseDateParam(chi.URLParam(r, "date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.GetEntry(r.Context(), restaurantID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAvailabilityEntryResponse(entry))
	}
}

// ListAvailability handles GET /api/v1/staff/restaurants/{restaurantId}/availability.
func ListAvailability(svc availabilitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		restaurantID, err := pathUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListByRestaurant(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]availabilityEntryResponse, 0, len(entries))
		for i := range entries {
			out = append(out, newAvailabilityEntryResponse(&entries[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
