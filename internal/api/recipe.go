package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfeed/backend/internal/middleware"
	"github.com/forkfeed/backend/internal/models"
	"github.com/forkfeed/backend/internal/service"
	"github.com/forkfeed/backend/internal/types"
)

// RecipeHandler exposes recipe CRUD, the favorite/cart toggles and the
// shopping list download.
type RecipeHandler struct {
	recipes       *service.RecipeService
	favorites     *service.MembershipService[models.Favorite]
	carts         *service.MembershipService[models.ShoppingCart]
	shoppingLists *service.ShoppingListService
	images        *service.ImageService
	validator     middleware.TokenValidator
	writeLimiter  *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	favorites *service.MembershipService[models.Favorite],
	carts *service.MembershipService[models.ShoppingCart],
	shoppingLists *service.ShoppingListService,
	images *service.ImageService,
	validator middleware.TokenValidator,
	writeLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		favorites:     favorites,
		carts:         carts,
		shoppingLists: shoppingLists,
		images:        images,
		validator:     validator,
		writeLimiter:  writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.validator)
	authOptional := middleware.OptionalAuthMiddleware(h.validator)
	rateLimited := h.writeLimiter.RateLimitMiddleware()

	recipes := router.Group("/recipes")
	{
		recipes.GET("", authOptional, h.ListRecipes)
		recipes.GET("/:id", authOptional, h.GetRecipe)
		recipes.POST("", authRequired, rateLimited, h.CreateRecipe)
		recipes.PATCH("/:id", authRequired, rateLimited, h.UpdateRecipe)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)

		recipes.POST("/:id/favorite", authRequired, addMembership(h.favorites))
		recipes.DELETE("/:id/favorite", authRequired, removeMembership(h.favorites))
		recipes.POST("/:id/shopping_cart", authRequired, addMembership(h.carts))
		recipes.DELETE("/:id/shopping_cart", authRequired, removeMembership(h.carts))

		recipes.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	for _, slugs := range c.QueryArray("tags") {
		for _, slug := range strings.Split(slugs, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				filter.TagSlugs = append(filter.TagSlugs, slug)
			}
		}
	}
	filter.IsFavorited = c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true"
	filter.IsInShoppingCart = c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true"

	views, err := h.recipes.List(c.Request.Context(), filter, middleware.Viewer(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	view, err := h.recipes.Get(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var in types.CreateRecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL, err := h.images.Resolve(c.Request.Context(), in.Image)
	if err != nil {
		_ = c.Error(err)
		return
	}
	in.Image = imageURL

	view, err := h.recipes.Create(c.Request.Context(), userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": view})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var in types.UpdateRecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if in.Image != nil {
		imageURL, err := h.images.Resolve(c.Request.Context(), *in.Image)
		if err != nil {
			_ = c.Error(err)
			return
		}
		in.Image = &imageURL
	}

	view, err := h.recipes.Update(c.Request.Context(), id, userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": view})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addMembership and removeMembership share one handler body across the
// favorite and shopping cart sets.
func addMembership[T any](set *service.MembershipService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		preview, err := set.Add(c.Request.Context(), userID, recipeID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, preview)
	}
}

func removeMembership[T any](set *service.MembershipService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		if err := set.Remove(c.Request.Context(), userID, recipeID); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	text, err := h.shoppingLists.Render(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
