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
	"github.com/joho/godotenv"

	httpapi "github.com/plantops/greenhouse-data-sim/internal/api/http"
	"github.com/plantops/greenhouse-data-sim/internal/config"
	"github.com/plantops/greenhouse-data-sim/internal/plant"
	"github.com/plantops/greenhouse-data-sim/internal/scheduler"
	"github.com/plantops/greenhouse-data-sim/internal/sink/collector"
	"github.com/plantops/greenhouse-data-sim/internal/sink/mqttsink"
	"github.com/plantops/greenhouse-data-sim/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration; invalid simulation parameters fail here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// In-memory run store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Optional sinks.
	var sinks []plant.Sink

	if cfg.MQTTBrokerURL != "" {
		pub, err := mqttsink.Connect(cfg.MQTTBrokerURL, "plantsim")
		if err != nil {
			log.Fatalf("failed to connect mqtt sink: %v", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	if cfg.CollectorURL != "" {
		httpClient := &http.Client{Timeout: 10 * time.Second}
		sinks = append(sinks, collector.New(httpClient, cfg.CollectorURL))
	}

	// Core service orchestrating simulation, aggregation, store and sinks.
	service, err := plant.NewService(memStore, sinks, cfg.Sim, cfg.BlockSize, cfg.Seed)
	if err != nil {
		log.Fatalf("failed to create service: %v", err)
	}

	// Scheduler that periodically regenerates stats per plant.
	sched := scheduler.New(cfg.Plants, cfg.GenerateInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "greenhouse-data-sim",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
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
			"service": "greenhouse-data-sim",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, cfg.StreamDelay)

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
