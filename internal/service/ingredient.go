package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/forkfeed/backend/internal/errs"
	"github.com/forkfeed/backend/internal/models"
)

// IngredientService serves the read-only ingredient catalog.
type IngredientService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewIngredientService(db *gorm.DB, log zerolog.Logger) *IngredientService {
	return &IngredientService{
		db:  db,
		log: log.With().Str("service", "ingredient").Logger(),
	}
}

// List returns catalog entries ordered by name, optionally narrowed by
// a case-insensitive prefix-or-substring match on the name.
func (s *IngredientService) List(ctx context.Context, name string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient

	query := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if name != "" {
		needle := strings.ToLower(name)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(name) LIKE ?",
			needle+"%", "%"+needle+"%")
	}

	if err := query.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Get returns a single catalog entry.
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, errs.FromDB(err, "ingredient not found")
	}
	return &ingredient, nil
}
