package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ShoppingListHeader is the first line of every rendered list.
const ShoppingListHeader = "Shopping list:"

// ShoppingListFilename is the attachment filename suggested to clients.
const ShoppingListFilename = "shopping_list.txt"

// ShoppingItem is one aggregated line of the shopping list: all cart
// recipes' amounts for one ingredient identity summed together.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`
}

// ShoppingListService aggregates a user's shopping cart into a
// deduplicated, unit-merged ingredient list.
type ShoppingListService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewShoppingListService(db *gorm.DB, log zerolog.Logger) *ShoppingListService {
	return &ShoppingListService{
		db:  db,
		log: log.With().Str("service", "shopping_list").Logger(),
	}
}

// Aggregate walks the user's cart, joins into the recipes' ingredient
// lines, groups by ingredient identity (name, unit) and sums amounts.
// Groups come back sorted by total descending; equal totals are ordered
// by name ascending so output is deterministic. Totals are 64-bit: the
// per-line bound is 32000 but a large cart can sum well past int16
// range.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("total DESC, name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render produces the downloadable plain-text report: a header line
// followed by one numbered "{name} = {total} {unit}" line per group.
// An empty cart renders the header alone.
func (s *ShoppingListService) Render(ctx context.Context, userID uuid.UUID) (string, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	for i, item := range items {
		fmt.Fprintf(&b, "\n%d. %s = %d %s", i+1, item.Name, item.Total, item.MeasurementUnit)
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Int("items", len(items)).
		Msg("shopping list rendered")
	return b.String(), nil
}
