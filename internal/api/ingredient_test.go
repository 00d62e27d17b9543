package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfeed/backend/internal/testhelpers"
)

func TestIngredientEndpoints(t *testing.T) {
	router, db := setupAPITest(t)

	sugar := testhelpers.CreateIngredient(t, db, "Sugar", "g")
	testhelpers.CreateIngredient(t, db, "Salt", "g")

	var listing []struct {
		Name string `json:"name"`
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/ingredients?name=sug", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "Sugar", listing[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients/"+sugar.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTagEndpoints(t *testing.T) {
	router, db := setupAPITest(t)

	dinner := testhelpers.CreateTag(t, db, "dinner")

	var listing []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "dinner", listing[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/v1/tags/"+dinner.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
