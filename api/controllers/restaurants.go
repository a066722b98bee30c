package controllers

import (
	"net/http"

	"github.com/pushkala9-bommu/tablebook-backend/api/responses"
	"github.com/pushkala9-bommu/tablebook-backend/api/validators"
	catalogsvc "github.com/pushkala9-bommu/tablebook-backend/internal/catalog"
	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
)

type createRestaurantRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	OpeningTime string `json:"opening_time" validate:"required"`
	ClosingTime string `json:"closing_time" validate:"required"`
}

// CreateRestaurant handles POST /api/v1/staff/restaurants.
func CreateRestaurant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createRestaurantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.CreateRestaurant(r.Context(), catalogsvc.CreateRestaurantInput{
			Name:        payload.Name,
			Capacity:    payload.Capacity,
			OpeningTime: payload.OpeningTime,
			ClosingTime: payload.ClosingTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, catalogsvc.ToDTO(restaurant))
	}
}

// GetRestaurant handles GET /api/v1/staff/restaurants/{restaurantId}.
func GetRestaurant(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		restaurantID, err := pathUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetRestaurant(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalogsvc.ToDTO(restaurant))
	}
}

// ListRestaurants handles GET /api/v1/staff/restaurants.
func ListRestaurants(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		restaurants, err := svc.ListRestaurants(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]catalogsvc.RestaurantDTO, 0, len(restaurants))
		for i := range restaurants {
			out = append(out, *catalogsvc.ToDTO(&restaurants[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
