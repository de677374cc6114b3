package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wayfinder-supply/wayfinder/internal/agent"
	"github.com/wayfinder-supply/wayfinder/internal/config"
	"github.com/wayfinder-supply/wayfinder/internal/credentials"
	"github.com/wayfinder-supply/wayfinder/internal/extract"
	"github.com/wayfinder-supply/wayfinder/internal/server"
	"github.com/wayfinder-supply/wayfinder/internal/store/postgres"
	redisstore "github.com/wayfinder-supply/wayfinder/internal/store/redis"
	"github.com/wayfinder-supply/wayfinder/internal/vision"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Workshop environments inject configuration directly; a .env file is
	// a local development convenience only.
	if os.Getenv("INSTRUQT") == "" {
		_ = godotenv.Load()
	}

	// Initialize structured logging from environment.
	logLevel := os.Getenv("WAYFINDER_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("WAYFINDER_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // validated in config
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	sessions, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	// Runtime credential store for the vision services. Settings endpoints
	// can override environment values without a restart.
	creds := credentials.NewResolver()

	client := agent.NewClient(cfg.Agent.BaseURL, cfg.Agent.APIKey)
	visionSvc := vision.NewService(cfg.Vision.BaseURL, cfg.Vision.VertexLocation, cfg.Vision.MaxImageBytes, creds)
	extractor := extract.NewExtractor(cfg.Extractor.Brands, cfg.Extractor.MaxProducts)
	relay := agent.NewRelay(client, visionSvc, extractor, cfg.Vision.AnalyzeTimeout)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(cfg, store, sessions, creds, client, relay, visionSvc)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
