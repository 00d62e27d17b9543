package testhelpers_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfeed/backend/internal/logging"
	"github.com/forkfeed/backend/internal/models"
	"github.com/forkfeed/backend/internal/service"
	"github.com/forkfeed/backend/internal/testhelpers"
	"github.com/forkfeed/backend/internal/types"
)

func recipeInput(name string, tag *models.Tag, ingredient *models.Ingredient, amount int) types.CreateRecipeInput {
	return types.CreateRecipeInput{
		Name:        name,
		Text:        "Mix and bake.",
		CookingTime: 30,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []types.IngredientLineInput{
			{IngredientID: ingredient.ID, Amount: amount},
		},
	}
}

func TestSetupTestDBIsIsolated(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	testhelpers.CreateUser(t, db, "alice")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// TestPostgresRoundTrip runs the schema and a small write path against
// a real PostgreSQL. Skipped when docker is unavailable.
func TestPostgresRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupPostgresDB(t)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "alice")
	tag := testhelpers.CreateTag(t, db, "dinner")
	sugar := testhelpers.CreateIngredient(t, db, "Sugar", "g")

	recipes := service.NewRecipeService(db, logging.Nop())
	view, err := recipes.Create(ctx, author.ID, recipeInput("Cake", tag, sugar, 100))
	require.NoError(t, err)
	assert.Equal(t, "Cake", view.Name)

	// The (author, name) unique index behaves the same as under SQLite.
	_, err = recipes.Create(ctx, author.ID, recipeInput("Cake", tag, sugar, 50))
	assert.Error(t, err)

	carts := service.NewShoppingCartService(db, logging.Nop())
	_, err = carts.Add(ctx, author.ID, view.ID)
	require.NoError(t, err)

	lists := service.NewShoppingListService(db, logging.Nop())
	text, err := lists.Render(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\n1. Sugar = 100 g", text)
}
