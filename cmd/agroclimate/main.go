package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/taramuri/weather-platform-sub001/internal/agro"
	httpapi "github.com/taramuri/weather-platform-sub001/internal/api/http"
	"github.com/taramuri/weather-platform-sub001/internal/config"
	"github.com/taramuri/weather-platform-sub001/internal/geo"
	"github.com/taramuri/weather-platform-sub001/internal/meteo"
	"github.com/taramuri/weather-platform-sub001/internal/scheduler"
	"github.com/taramuri/weather-platform-sub001/internal/store"
	"github.com/taramuri/weather-platform-sub001/internal/vegetation"
	"github.com/taramuri/weather-platform-sub001/internal/webclient"
)

func main() {
	// Load configuration (config.Load reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound collaborator calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Collaborator clients, each behind its own circuit breaker.
	weatherFeed := meteo.NewClient(webclient.New("openmeteo", httpClient))
	vegClient := vegetation.NewClient(webclient.New("vegetation", httpClient), cfg.VegetationAPIURL)

	placeCache := store.NewCache[geo.Place](cfg.CacheTTL, cfg.CacheMaxEntries)
	resolver := geo.NewResolver(webclient.New("geocoding", httpClient), cfg.GoogleGeocoderAPIKey, placeCache)

	// Core analytics service with its moisture memo cache.
	moistureCache := store.NewCache[agro.MoistureSnapshot](cfg.CacheTTL, cfg.CacheMaxEntries)
	service := agro.NewService(weatherFeed, vegClient, moistureCache, cfg.RandomSeed)

	// Scheduler that keeps moisture snapshots warm for configured places.
	warmer := scheduler.New(cfg.WarmPlaces, cfg.WarmInterval, service, resolver)
	if err := warmer.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer warmer.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "agroclimate-analytics",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agroclimate-analytics",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, resolver, weatherFeed)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
