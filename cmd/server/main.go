package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/cache"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/config"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/database"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/handlers"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/routes"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/services"
	assistantws "github.com/Ayush-kumar-28/Mentorverse-sub001/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg)

	pool, err := database.Connect(cfg.DBUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	var cacheClient *cache.Client
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewClient(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, availability caching disabled")
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	doubtRepo := repository.NewDoubtRepository(pool)
	assistantRepo := repository.NewAssistantRepository(pool)

	hub := assistantws.NewHub()
	go hub.Run()

	schedulerService := services.NewSchedulerService(pool, sessionRepo, profileRepo, userRepo, log.Logger)
	matchingService := services.NewMatchingService(profileRepo)
	availabilityService := services.NewAvailabilityService(
		cacheClient,
		time.Duration(cfg.AvailabilityCacheTTL)*time.Minute,
		log.Logger,
	)
	profileService := services.NewProfileService(profileRepo)
	doubtService := services.NewDoubtService(doubtRepo)
	completionClient := services.NewHTTPCompletionClient(
		cfg.AssistantAPIURL,
		cfg.AssistantAPIKey,
		cfg.AssistantModel,
	)
	assistantService := services.NewAssistantService(assistantRepo, completionClient, hub, log.Logger)

	app := fiber.New(fiber.Config{
		AppName: "mentorverse",
	})
	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.AppEnv == "development" {
		app.Use(fiberlogger.New())
	}

	routes.Register(app, cfg.JWTSecret, routes.Handlers{
		Auth:      handlers.NewAuthHandler(pool, userRepo, profileRepo, cfg.JWTSecret),
		Profile:   handlers.NewProfileHandler(profileRepo, profileService),
		Mentor:    handlers.NewMentorHandler(profileRepo, matchingService, availabilityService),
		Session:   handlers.NewSessionHandler(schedulerService),
		Doubt:     handlers.NewDoubtHandler(doubtService),
		Assistant: handlers.NewAssistantHandler(assistantService, hub, cfg.JWTSecret),
	})

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.AppEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
