package main

import (
	"github.com/forkfeed/backend/config"
	"github.com/forkfeed/backend/internal/database"
	"github.com/forkfeed/backend/internal/logging"
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

	log.Info().Msg("migrations applied")
}
