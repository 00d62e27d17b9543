package types

import "github.com/google/uuid"

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientLineInput is one (ingredient, amount) entry of a recipe
// write payload.
type IngredientLineInput struct {
	IngredientID uuid.UUID `json:"id" binding:"required"`
	Amount       int       `json:"amount" binding:"required"`
}

// CreateRecipeInput carries a full recipe write. Tags and ingredient
// lines are always required: recipe edits replace both sets wholesale.
type CreateRecipeInput struct {
	Name        string                `json:"name" binding:"required,max=200"`
	Text        string                `json:"text" binding:"required"`
	Image       string                `json:"image"`
	CookingTime int                   `json:"cooking_time" binding:"required"`
	TagIDs      []uuid.UUID           `json:"tags" binding:"required"`
	Ingredients []IngredientLineInput `json:"ingredients" binding:"required"`
}

// UpdateRecipeInput carries a recipe update. Scalar fields are optional
// and replace prior state when present; tags and ingredients must be
// supplied in full on every update. An update that omits them is
// rejected rather than read as "no change".
type UpdateRecipeInput struct {
	Name        *string               `json:"name" binding:"omitempty,max=200"`
	Text        *string               `json:"text"`
	Image       *string               `json:"image"`
	CookingTime *int                  `json:"cooking_time"`
	TagIDs      []uuid.UUID           `json:"tags"`
	Ingredients []IngredientLineInput `json:"ingredients"`
}

// RecipeFilter narrows recipe listings. TagSlugs use OR semantics:
// a recipe matches when it carries any of the slugs.
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}
