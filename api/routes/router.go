package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pushkala9-bommu/tablebook-backend/api/controllers"
	"github.com/pushkala9-bommu/tablebook-backend/api/middleware"
	availabilitysvc "github.com/pushkala9-bommu/tablebook-backend/internal/availability"
	bookingsvc "github.com/pushkala9-bommu/tablebook-backend/internal/booking"
	catalogsvc "github.com/pushkala9-bommu/tablebook-backend/internal/catalog"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/config"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/db"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
	pkgredis "github.com/pushkala9-bommu/tablebook-backend/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *pkgredis.Client
	Bookings     bookingsvc.Service
	Availability availabilitysvc.Service
	Catalog      catalogsvc.Service
	Registry     *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var cache pkgredis.Pinger
	var idemStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		cache = deps.Redis
		idemStore = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/bookings", func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Post("/", controllers.CreateBooking(deps.Bookings, logg))
			r.Get("/{bookingId}", controllers.GetBooking(deps.Bookings, logg))
			r.Patch("/{bookingId}", controllers.ModifyBooking(deps.Bookings, logg))
			r.Delete("/{bookingId}", controllers.CancelBooking(deps.Bookings, logg))
		})

		r.Route("/staff/restaurants", func(r chi.Router) {
			r.Post("/", controllers.CreateRestaurant(deps.Catalog, logg))
			r.Get("/", controllers.ListRestaurants(deps.Catalog, logg))
			r.Route("/{restaurantId}", func(r chi.Router) {
				r.Get("/", controllers.GetRestaurant(deps.Catalog, logg))
				r.Get("/bookings", controllers.ListRestaurantBookings(deps.Bookings, logg))
				r.Get("/availability", controllers.ListAvailability(deps.Availability, logg))
				r.Get("/availability/{date}", controllers.GetAvailability(deps.Availability, logg))
				r.Put("/availability/{date}", controllers.SetAvailability(deps.Availability, logg))
			})
		})
	})

	return r
}
