package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // PRICING_TIMEZONE must resolve in minimal containers

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/backend"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/config"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/handler"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/repository"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/service"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/validator"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/wallet"
	"github.com/fairyhunter13/hotel-pricing-engine/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	loc, err := cfg.Pricing.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pricing timezone")
	}

	ctx := context.Background()

	// Consumption ledger
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), cfg.DB.Retries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Hotel Pricing Engine",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	validate := validator.New()

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout(),
		backend.WithBreaker(cfg.Backend.BreakerFailures, cfg.Backend.BreakerOpenFor()))
	wallets := wallet.NewStore()

	consumptionRepo := repository.NewConsumptionRepository(pool)
	consumptionService := service.NewConsumptionService(consumptionRepo, backendClient, wallets)
	pricingService := service.NewPricingService(backendClient, wallets, consumptionService, loc)

	pricingHandler := handler.NewPricingHandler(pricingService, validate)
	reservationHandler := handler.NewReservationHandler(pricingService, consumptionService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	api.Post("/pricing/quote", pricingHandler.Quote)
	api.Post("/pricing/coupon", pricingHandler.SelectCoupon)
	api.Post("/reservations", reservationHandler.Confirm)
	api.Get("/reservations/:id/coupons", reservationHandler.ListConsumptions)

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("backend", cfg.Backend.BaseURL).
			Str("timezone", loc.String()).
			Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// In-flight confirmations finish their consumption step before the pool goes away.
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
