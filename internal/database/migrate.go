package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/forkfeed/backend/internal/models"
)

// RunMigrations brings the schema up to date. Ordering matters: users
// and catalog tables first, then recipes, then the join and membership
// tables that reference them.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
