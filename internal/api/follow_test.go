package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfeed/backend/internal/models"
)

func TestSubscribeEndpoints(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)

	authorToken := registerUser(t, router, "alice")
	readerToken := registerUser(t, router, "bob")

	var author models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&author).Error)
	var reader models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&reader).Error)

	createRecipe(t, router, authorToken, "Cake", tag, flour, 200)
	createRecipe(t, router, authorToken, "Pie", tag, flour, 100)

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+author.ID.String()+"/subscribe", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sub struct {
		Username     string `json:"username"`
		IsSubscribed bool   `json:"is_subscribed"`
		RecipesCount int64  `json:"recipes_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "alice", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 2, sub.RecipesCount)

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/"+author.ID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/"+reader.ID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "self-follow must be rejected")

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/"+author.ID.String()+"/subscribe", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionsEndpoint(t *testing.T) {
	router, db := setupAPITest(t)
	tag, flour := seedCatalog(t, db)

	authorToken := registerUser(t, router, "alice")
	readerToken := registerUser(t, router, "bob")

	var author models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&author).Error)

	for _, name := range []string{"Cake", "Pie", "Bread"} {
		createRecipe(t, router, authorToken, name, tag, flour, 100)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+author.ID.String()+"/subscribe", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var listing struct {
		Subscriptions []struct {
			Username     string `json:"username"`
			Recipes      []any  `json:"recipes"`
			RecipesCount int64  `json:"recipes_count"`
		} `json:"subscriptions"`
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=2", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Subscriptions, 1)
	assert.Equal(t, "alice", listing.Subscriptions[0].Username)
	assert.Len(t, listing.Subscriptions[0].Recipes, 2)
	assert.EqualValues(t, 3, listing.Subscriptions[0].RecipesCount)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=-1", readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unsubscribe empties the listing.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/"+author.ID.String()+"/subscribe", readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/subscriptions", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Empty(t, listing.Subscriptions)
}
