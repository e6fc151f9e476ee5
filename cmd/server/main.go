package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/Le0Vieir4/Weather-io/internal/api/http"
	"github.com/Le0Vieir4/Weather-io/internal/auth"
	"github.com/Le0Vieir4/Weather-io/internal/config"
	"github.com/Le0Vieir4/Weather-io/internal/logger"
	"github.com/Le0Vieir4/Weather-io/internal/storage"
	"github.com/Le0Vieir4/Weather-io/internal/user"
	"github.com/Le0Vieir4/Weather-io/internal/weatherlog"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Repositories: MongoDB when configured, in-memory otherwise.
	var (
		userRepo    user.Repository
		weatherRepo weatherlog.Repository
		healthcheck func(context.Context) error
	)
	if cfg.Mongo.URL != "" {
		db, err := storage.Connect(startupCtx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		healthcheck = storage.Healthcheck(db)

		userRepo, err = user.NewMongoRepository(startupCtx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize user repository")
		}
		weatherRepo, err = weatherlog.NewMongoRepository(startupCtx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize weather log repository")
		}
	} else {
		log.Warn().Msg("MONGODB_URL not set; using in-memory stores, data will not survive restarts")
		userRepo = user.NewMemoryRepository()
		weatherRepo = weatherlog.NewMemoryRepository()
	}

	users := user.NewService(userRepo)
	weather := weatherlog.NewService(weatherRepo, log)

	issuer, err := auth.NewIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token issuer")
	}
	authSvc := auth.NewService(users, issuer, cfg.TokenTTL)

	// OAuth providers are registered only when credentials are configured.
	var providers []auth.OAuthProvider
	if g := cfg.Google(); g.ClientID != "" {
		providers = append(providers, auth.NewGoogleProvider(g))
	}
	if g := cfg.Github(); g.ClientID != "" {
		providers = append(providers, auth.NewGithubProvider(g))
	}

	// Daily retention sweep for deactivated accounts.
	cleaner := user.NewCleaner(users, cfg.RetentionDays, cfg.CleanupAt, log)
	if err := cleaner.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start retention cleaner")
	}
	defer cleaner.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-io",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": "weather-io"}
		if healthcheck != nil {
			if err := healthcheck(c.Context()); err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				return c.Status(fiber.StatusServiceUnavailable).JSON(status)
			}
			status["database"] = "ok"
		}
		return c.JSON(status)
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Auth:        authSvc,
		Users:       users,
		Weather:     weather,
		Cleaner:     cleaner,
		Providers:   providers,
		FrontendURL: cfg.FrontendURL,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
		os.Exit(1)
	}
}
