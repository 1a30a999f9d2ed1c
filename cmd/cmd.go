package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"athlete-connect-backend/internal/config"
	"athlete-connect-backend/internal/repository"
	"athlete-connect-backend/internal/search"
	"athlete-connect-backend/internal/seed"
	"athlete-connect-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run loads the configuration, seeds the stores and serves the API until interrupted
func Run() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	conversationRepo := repository.NewConversationRepository()

	suggestedIDs, err := seed.Load(userRepo, conversationRepo, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load seed data")
	}
	log.Info().
		Int("users", userRepo.Count()).
		Int("conversations", len(conversationRepo.List())).
		Msg("Seed data loaded")

	// Initialize services
	conversationService := services.NewConversationService(conversationRepo, userRepo)
	sessionManager := services.NewSessionManager(
		userRepo,
		conversationService,
		services.SessionOptions{
			AutoRegister: cfg.Auth.AutoRegister,
			HistoryLimit: cfg.Search.HistoryLimit,
			Suggestions:  search.NewStaticSuggestions(userRepo, suggestedIDs),
		},
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
	)
	videoService, err := services.NewVideoService(context.Background(), services.VideoStorageConfig{
		Region:    cfg.AWS.Region,
		Bucket:    cfg.AWS.S3Bucket,
		AccessKey: cfg.AWS.AccessKey,
		SecretKey: cfg.AWS.SecretKey,
		Endpoint:  cfg.AWS.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create video service")
	}
	if !videoService.Enabled() {
		log.Warn().Msg("Video storage not configured, uploads will only record URLs")
	}
	wsHub := services.NewWSHub()

	router := NewRouter(sessionManager, conversationService, videoService, wsHub)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
