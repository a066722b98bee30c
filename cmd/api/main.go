package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pushkala9-bommu/tablebook-backend/api/routes"
	"github.com/pushkala9-bommu/tablebook-backend/internal/availability"
	"github.com/pushkala9-bommu/tablebook-backend/internal/booking"
	"github.com/pushkala9-bommu/tablebook-backend/internal/catalog"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/config"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/db"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/logger"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/metrics"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/migrate"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(promRegistry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	availabilityRepo := availability.NewRepository(dbClient.DB())
	bookingRepo := booking.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	availabilityService, err := availability.NewService(availabilityRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}
	bookingService, err := booking.NewService(
		dbClient,
		bookingRepo,
		availabilityRepo,
		catalogRepo,
		bookingMetrics,
		logg,
		cfg.Booking.MaxPartySize,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Bookings:     bookingService,
			Availability: availabilityService,
			Catalog:      catalogService,
			Registry:     promRegistry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
