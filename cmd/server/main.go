package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kvision/portal-api/internal/api"
	"github.com/kvision/portal-api/internal/core/ports"
	"github.com/kvision/portal-api/internal/core/service"
	"github.com/kvision/portal-api/internal/infrastructure/ai"
	"github.com/kvision/portal-api/internal/infrastructure/config"
	mongodb "github.com/kvision/portal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/kvision/portal-api/internal/infrastructure/db/redis"
	"github.com/kvision/portal-api/internal/infrastructure/oauth"
	"github.com/kvision/portal-api/pkg/logger"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect error")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}()

	// --- Repositories and adapters ---
	profiles := mongodb.NewProfileRepository(db)
	creds := mongodb.NewCredentialRepository(db)
	messages := mongodb.NewMessageRepository(db)
	announcements := mongodb.NewAnnouncementRepository(db)
	siteConfig := mongodb.NewConfigRepository(db)

	sessions := redisdb.NewSessionStore(rdb)
	states := redisdb.NewStateStore(rdb)
	feed := redisdb.NewMessageFeed(rdb, logger.Component("feed"))

	google := oauth.NewGoogleProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.RedirectURL)

	// The assistant degrades to a canned apology when no API key is set,
	// so a missing key must not stop the server.
	var assistantClient ports.AssistantClient
	if gemini, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model); err != nil {
		log.Warn().Err(err).Msg("assistant disabled")
	} else {
		assistantClient = gemini
	}

	// --- Services ---
	clock := service.NewClock()
	resolver := service.NewProfileResolver(profiles, clock, logger.Component("bootstrap"))
	authService := service.NewAuthService(creds, profiles, sessions, states, google, resolver, clock, logger.Component("auth"), cfg.JWTSecret, 24*time.Hour)
	profileService := service.NewProfileService(profiles, logger.Component("profile"))
	contentService := service.NewContentService(siteConfig, announcements, logger.Component("content"))
	messengerService := service.NewMessengerService(profiles, messages, feed, logger.Component("messenger"))
	assistantService := service.NewAssistantService(assistantClient, logger.Component("assistant"))

	if err := contentService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("site content load failed")
	}
	contentService.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Log:       log,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Sessions:  sessions,
		Auth:      authService,
		Profiles:  profileService,
		Content:   contentService,
		Messenger: messengerService,
		Assistant: assistantService,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
