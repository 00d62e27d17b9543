package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkfeed/backend/internal/models"
	"github.com/forkfeed/backend/internal/testhelpers"
)

type recipeResponse struct {
	Recipe struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		CookingTime int    `json:"cooking_time"`
		Author      struct {
			Username string `json:"username"`
		} `json:"author"`
		Ingredients []struct {
			Name   string `json:"name"`
			Amount int    `json:"amount"`
		} `json:"ingredients"`
		IsFavorited      bool `json:"is_favorited"`
		IsInShoppingCart bool `json:"is_in_shopping_cart"`
	} `json:"recipe"`
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Tag, *models.Ingredient) {
	t.Helper()
	tag := testhelpers.CreateTag(t, db, "dinner")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	return tag, flour
}

func recipeBody(name string, tag *models.Tag, lines ...gin.H) gin.H {
	return gin.H{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 30,
		"tags":         []string{tag.ID.String()},
		"ingredients":  lines,
	}
}

func createRecipe(t *testing.T, router *gin.Engine, token, name string, tag *models.Tag, ingredient *models.Ingredient, amount int) recipeResponse {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", token,
		recipeBody(name, tag, gin.H{"id": ingredient.ID.String(), "amount": amount}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateRecipeEndpoint(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)
	token := registerUser(t, router, "alice")

	resp := createRecipe(t, router, token, "Cake", tag, flour, 200)
	assert.Equal(t, "Cake", resp.Recipe.Name)
	assert.Equal(t, "alice", resp.Recipe.Author.Username)
	require.Len(t, resp.Recipe.Ingredients, 1)
	assert.Equal(t, 200, resp.Recipe.Ingredients[0].Amount)

	// Anonymous writes are rejected before reaching the service.
	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", "",
		recipeBody("Pie", tag, gin.H{"id": flour.ID.String(), "amount": 10}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Duplicate (author, name).
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token,
		recipeBody("Cake", tag, gin.H{"id": flour.ID.String(), "amount": 10}))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Out-of-range amount surfaces as a 400.
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token,
		recipeBody("Pie", tag, gin.H{"id": flour.ID.String(), "amount": 32001}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecipeEndpoint(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)
	token := registerUser(t, router, "alice")

	created := createRecipe(t, router, token, "Cake", tag, flour, 200)

	w := doJSON(t, router, http.MethodPatch, "/api/v1/recipes/"+created.Recipe.ID, token, gin.H{
		"name":        "Better Cake",
		"tags":        []string{tag.ID.String()},
		"ingredients": []gin.H{{"id": flour.ID.String(), "amount": 250}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Better Cake", resp.Recipe.Name)

	// Another user may not edit it.
	stranger := registerUser(t, router, "mallory")
	w = doJSON(t, router, http.MethodPatch, "/api/v1/recipes/"+created.Recipe.ID, stranger, gin.H{
		"tags":        []string{tag.ID.String()},
		"ingredients": []gin.H{{"id": flour.ID.String(), "amount": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)
	token := registerUser(t, router, "alice")

	created := createRecipe(t, router, token, "Cake", tag, flour, 200)

	stranger := registerUser(t, router, "mallory")
	w := doJSON(t, router, http.MethodDelete, "/api/v1/recipes/"+created.Recipe.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/recipes/"+created.Recipe.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)
	author := registerUser(t, router, "alice")
	fan := registerUser(t, router, "bob")

	created := createRecipe(t, router, author, "Cake", tag, flour, 200)
	path := "/api/v1/recipes/" + created.Recipe.ID + "/favorite"

	w := doJSON(t, router, http.MethodPost, path, fan, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var preview struct {
		Name        string `json:"name"`
		CookingTime int    `json:"cooking_time"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, "Cake", preview.Name)
	assert.Equal(t, 30, preview.CookingTime)

	w = doJSON(t, router, http.MethodPost, path, fan, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The viewer-aware read reflects the membership.
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID, fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		IsFavorited bool `json:"is_favorited"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.IsFavorited)

	w = doJSON(t, router, http.MethodDelete, path, fan, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, fan, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCartEndpoint(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)
	sugar := testhelpers.CreateIngredient(t, db, "Sugar", "g")

	author := registerUser(t, router, "alice")
	fan := registerUser(t, router, "bob")

	cake := doJSON(t, router, http.MethodPost, "/api/v1/recipes", author, gin.H{
		"name":         "Cake",
		"text":         "Mix and bake.",
		"cooking_time": 30,
		"tags":         []string{tag.ID.String()},
		"ingredients": []gin.H{
			{"id": flour.ID.String(), "amount": 200},
			{"id": sugar.ID.String(), "amount": 100},
		},
	})
	require.Equal(t, http.StatusCreated, cake.Code, cake.Body.String())
	var created recipeResponse
	require.NoError(t, json.Unmarshal(cake.Body.Bytes(), &created))

	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes/"+created.Recipe.ID+"/shopping_cart", fan, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=shopping_list.txt", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Shopping list:\n1. Flour = 200 g\n2. Sugar = 100 g", w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListRecipesEndpoint(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)
	breakfast := testhelpers.CreateTag(t, db, "breakfast")

	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	createRecipe(t, router, alice, "Cake", tag, flour, 200)
	createRecipe(t, router, bob, "Porridge", breakfast, flour, 50)

	var listing struct {
		Recipes []struct {
			Name string `json:"name"`
		} `json:"recipes"`
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Recipes, 2)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?tags=breakfast", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Recipes, 1)
	assert.Equal(t, "Porridge", listing.Recipes[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?tags=breakfast,dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Recipes, 2)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?author=not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
