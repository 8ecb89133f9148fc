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
	"github.com/jonboulle/clockwork"

	httpapi "github.com/knitcast/temperature-blanket/internal/api/http"
	"github.com/knitcast/temperature-blanket/internal/blanket"
	"github.com/knitcast/temperature-blanket/internal/config"
	"github.com/knitcast/temperature-blanket/internal/scheduler"
	"github.com/knitcast/temperature-blanket/internal/store"
	"github.com/knitcast/temperature-blanket/internal/weather"
	"github.com/knitcast/temperature-blanket/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Durable store; schema is created and ranges seeded on first run.
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", cfg.DBPath, err)
	}
	defer db.Close()

	// Provider is optional for the server; queries work without it, and the
	// scheduler only runs when it is configured.
	var provider weather.Provider
	if cfg.VisualCrossingAPIKey != "" {
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		provider = providers.NewVisualCrossingProvider(httpClient, cfg.VisualCrossingAPIKey, cfg.Latitude, cfg.Longitude)
	}

	service, err := blanket.NewService(db, provider, clockwork.NewRealClock(), cfg.Timezone)
	if err != nil {
		log.Fatalf("failed to initialize service: %v", err)
	}

	// Optional in-process daily fetch.
	if cfg.FetchDailyAt != "" {
		if provider == nil {
			log.Fatalf("FETCH_DAILY_AT is set but VISUALCROSSING_API_KEY is not")
		}
		sched := scheduler.New(service, cfg.Timezone, cfg.FetchDailyAt)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "temperature-blanket",
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
			"service": "temperature-blanket",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

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
