package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/forkfeed/backend/internal/errs"
	"github.com/forkfeed/backend/internal/models"
	"github.com/forkfeed/backend/internal/types"
)

// MembershipService is one (user, recipe) set. Favorites and the
// shopping cart are structurally identical, so a single implementation
// is parameterized by the row type instead of duplicating the service.
//
// Add and Remove report duplicates and missing rows as errors rather
// than treating them as no-ops; repeated toggles indicate client-side
// state bugs and are surfaced deliberately.
type MembershipService[T any] struct {
	db     *gorm.DB
	log    zerolog.Logger
	name   string
	newRow func(userID, recipeID uuid.UUID) T
}

func NewFavoriteService(db *gorm.DB, log zerolog.Logger) *MembershipService[models.Favorite] {
	return &MembershipService[models.Favorite]{
		db:   db,
		log:  log.With().Str("service", "favorite").Logger(),
		name: "favorites",
		newRow: func(userID, recipeID uuid.UUID) models.Favorite {
			return models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShoppingCartService(db *gorm.DB, log zerolog.Logger) *MembershipService[models.ShoppingCart] {
	return &MembershipService[models.ShoppingCart]{
		db:   db,
		log:  log.With().Str("service", "shopping_cart").Logger(),
		name: "shopping cart",
		newRow: func(userID, recipeID uuid.UUID) models.ShoppingCart {
			return models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add inserts the (user, recipe) pair and returns a preview of the
// recipe. Adding an existing pair is a conflict.
func (s *MembershipService[T]) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipePreview, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, errs.FromDB(err, "recipe not found")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.Conflict("recipe is already in %s", s.name)
		}

		row := s.newRow(userID, recipeID)
		return errs.FromDB(tx.Create(&row).Error, "recipe is already in "+s.name)
	})
	if err != nil {
		return nil, err
	}

	preview := types.PreviewOf(&recipe)
	return &preview, nil
}

// Remove deletes the (user, recipe) pair. Removing an absent pair is
// reported as not found.
func (s *MembershipService[T]) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("recipe is not in %s", s.name)
	}
	return nil
}

// Contains reports set membership for a single pair.
func (s *MembershipService[T]) Contains(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}
