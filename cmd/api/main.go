package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkfeed/backend/config"
	"github.com/forkfeed/backend/internal/database"
	"github.com/forkfeed/backend/internal/logging"
	"github.com/forkfeed/backend/internal/server"
)

func main() {
	log := logging.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Rate limiting is skipped when Redis is unreachable; the API
	// itself does not depend on it.
	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		redisClient = nil
	}

	// Same for image uploads: without S3 credentials the API still
	// accepts image URLs.
	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("s3 unavailable, image uploads disabled")
		s3cfg = nil
	}

	srv := server.New(cfg, db, redisClient, s3cfg, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
