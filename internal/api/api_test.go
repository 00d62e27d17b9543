package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkfeed/backend/internal/logging"
	"github.com/forkfeed/backend/internal/middleware"
	"github.com/forkfeed/backend/internal/service"
	"github.com/forkfeed/backend/internal/testhelpers"
)

// setupAPITest assembles the same middleware and handler stack the
// server wires in production, minus Redis and object storage.
func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	log := logging.Nop()

	authService := service.NewAuthService(db, log, "test-secret")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler(log))

	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewIngredientHandler(service.NewIngredientService(db, log)).RegisterRoutes(v1)
	NewTagHandler(service.NewTagService(db, log)).RegisterRoutes(v1)
	NewRecipeHandler(
		service.NewRecipeService(db, log),
		service.NewFavoriteService(db, log),
		service.NewShoppingCartService(db, log),
		service.NewShoppingListService(db, log),
		service.NewImageService(nil, log),
		authService,
		nil,
	).RegisterRoutes(v1)
	NewFollowHandler(service.NewFollowService(db, log), authService).RegisterRoutes(v1)

	return router, db
}

// registerUser signs up a user through the API and returns the token.
func registerUser(t *testing.T, router *gin.Engine, name string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      fmt.Sprintf("%s@example.com", name),
		"username":   name,
		"first_name": name,
		"last_name":  "Tester",
		"password":   "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
