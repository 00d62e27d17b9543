// Command seed loads the ingredient catalog and tag vocabulary from
// JSON fixture files into the database. Existing rows are left alone,
// so re-running is safe.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm/clause"

	"github.com/forkfeed/backend/config"
	"github.com/forkfeed/backend/internal/database"
	"github.com/forkfeed/backend/internal/logging"
	"github.com/forkfeed/backend/internal/models"
)

type ingredientFixture struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

type tagFixture struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "path to the ingredient fixture")
	tagsPath := flag.String("tags", "data/tags.json", "path to the tag fixture")
	flag.Parse()

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

	validate := validator.New()

	var ingredients []ingredientFixture
	if err := loadFixture(*ingredientsPath, &ingredients); err != nil {
		log.Fatal().Err(err).Str("path", *ingredientsPath).Msg("failed to load ingredient fixture")
	}
	for i, row := range ingredients {
		if err := validate.Struct(row); err != nil {
			log.Fatal().Err(err).Int("index", i).Msg("invalid ingredient fixture entry")
		}
	}

	var tags []tagFixture
	if err := loadFixture(*tagsPath, &tags); err != nil {
		log.Fatal().Err(err).Str("path", *tagsPath).Msg("failed to load tag fixture")
	}
	for i, row := range tags {
		if err := validate.Struct(row); err != nil {
			log.Fatal().Err(err).Int("index", i).Msg("invalid tag fixture entry")
		}
	}

	for _, row := range ingredients {
		ingredient := models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredient).Error; err != nil {
			log.Fatal().Err(err).Str("name", row.Name).Msg("failed to insert ingredient")
		}
	}

	for _, row := range tags {
		tag := models.Tag{Name: row.Name, Color: row.Color, Slug: row.Slug}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			log.Fatal().Err(err).Str("name", row.Name).Msg("failed to insert tag")
		}
	}

	log.Info().
		Int("ingredients", len(ingredients)).
		Int("tags", len(tags)).
		Msg("seed complete")
}

func loadFixture(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
