package types

import (
	"github.com/google/uuid"

	"github.com/forkfeed/backend/internal/models"
)

// UserView is the public projection of a user. IsSubscribed is computed
// per viewer at read time, never stored.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientLineView is one resolved ingredient line of a recipe view.
type IngredientLineView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is the denormalized read form of a recipe. The two
// booleans are existence checks against the viewer's membership sets
// and are always false for anonymous viewers.
type RecipeView struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Author           UserView             `json:"author"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	Tags             []models.Tag         `json:"tags"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	CookingTime      int                  `json:"cooking_time"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
}

// RecipePreview is the lightweight recipe form returned by membership
// toggles and subscription listings.
type RecipePreview struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// PreviewOf builds a RecipePreview from a recipe row.
func PreviewOf(r *models.Recipe) RecipePreview {
	return RecipePreview{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// SubscriptionView is one followed author with a recipe preview slice
// and the author's total recipe count.
type SubscriptionView struct {
	UserView
	Recipes      []RecipePreview `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}
