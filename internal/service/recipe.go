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

// RecipeService handles recipe reads and author-only mutations. Every
// multi-row write runs in one transaction so a reader never observes a
// recipe with tags but no ingredient lines.
type RecipeService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRecipeService(db *gorm.DB, log zerolog.Logger) *RecipeService {
	return &RecipeService{
		db:  db,
		log: log.With().Str("service", "recipe").Logger(),
	}
}

// Create persists a recipe with its full tag set and ingredient lines
// as one atomic unit.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in types.CreateRecipeInput) (*types.RecipeView, error) {
	if err := validateCookingTime(in.CookingTime); err != nil {
		return nil, err
	}
	if err := validateLines(in.Ingredients); err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Recipe{}).
			Where("author_id = ? AND name = ?", authorID, in.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.Conflict("you have already published a recipe named %q", in.Name)
		}

		recipe := models.Recipe{
			AuthorID:    authorID,
			Name:        in.Name,
			Text:        in.Text,
			ImageURL:    in.Image,
			CookingTime: in.CookingTime,
			Tags:        tags,
		}
		for _, line := range in.Ingredients {
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
			})
		}

		if err := tx.Create(&recipe).Error; err != nil {
			return errs.FromDB(err, "recipe violates a uniqueness constraint")
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("recipe_id", recipeID.String()).Str("author_id", authorID.String()).Msg("recipe created")
	return s.Get(ctx, recipeID, &authorID)
}

// Update applies an author-only edit. Tags and ingredient lines are
// replaced wholesale; omitting either rejects the update.
func (s *RecipeService) Update(ctx context.Context, recipeID, editorID uuid.UUID, in types.UpdateRecipeInput) (*types.RecipeView, error) {
	if len(in.TagIDs) == 0 {
		return nil, errs.Validation("tags are required: updates replace the full tag set")
	}
	if err := validateLines(in.Ingredients); err != nil {
		return nil, err
	}
	if in.CookingTime != nil {
		if err := validateCookingTime(*in.CookingTime); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			return errs.FromDB(err, "recipe not found")
		}
		if recipe.AuthorID != editorID {
			return errs.Permission("only the author can modify this recipe")
		}

		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Name != nil && *in.Name != recipe.Name {
			var count int64
			if err := tx.Model(&models.Recipe{}).
				Where("author_id = ? AND name = ? AND id <> ?", recipe.AuthorID, *in.Name, recipe.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errs.Conflict("you have already published a recipe named %q", *in.Name)
			}
			updates["name"] = *in.Name
		}
		if in.Text != nil {
			updates["text"] = *in.Text
		}
		if in.Image != nil {
			updates["image_url"] = *in.Image
		}
		if in.CookingTime != nil {
			updates["cooking_time"] = *in.CookingTime
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return errs.FromDB(err, "recipe violates a uniqueness constraint")
			}
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		// Clear-then-set: old lines are removed, the supplied set is
		// inserted in full.
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		lines := make([]models.RecipeIngredient, 0, len(in.Ingredients))
		for _, line := range in.Ingredients {
			lines = append(lines, models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
			})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return errs.FromDB(err, "recipe lines violate a uniqueness constraint")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("recipe_id", recipeID.String()).Msg("recipe updated")
	return s.Get(ctx, recipeID, &editorID)
}

// Delete removes a recipe and cascades to its lines and membership rows.
func (s *RecipeService) Delete(ctx context.Context, recipeID, editorID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			return errs.FromDB(err, "recipe not found")
		}
		if recipe.AuthorID != editorID {
			return errs.Permission("only the author can delete this recipe")
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("recipe_id", recipeID.String()).Msg("recipe deleted")
	return nil
}

// Get returns the denormalized view of one recipe for the given viewer.
// A nil viewer is anonymous: both membership booleans come back false.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		return nil, errs.FromDB(err, "recipe not found")
	}

	views, err := s.buildViews(ctx, []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns recipe views matching the filter, newest first. The
// favorited/in-cart filters are ignored for anonymous viewers, matching
// the read-path contract.
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter, viewer *uuid.UUID) ([]types.RecipeView, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if viewer != nil {
		if filter.IsFavorited {
			query = query.
				Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
				Where("favorites.user_id = ?", *viewer)
		}
		if filter.IsInShoppingCart {
			query = query.
				Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
				Where("shopping_carts.user_id = ?", *viewer)
		}
	}

	var recipes []models.Recipe
	if err := query.Order("recipes.created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}

	return s.buildViews(ctx, recipes, viewer)
}

// buildViews projects recipe rows into viewer-aware views, batching the
// membership and follow lookups across the whole slice.
func (s *RecipeService) buildViews(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]types.RecipeView, error) {
	views := make([]types.RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	followed := map[uuid.UUID]bool{}

	if viewer != nil {
		recipeIDs := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var favorites []models.Favorite
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
			Find(&favorites).Error; err != nil {
			return nil, err
		}
		for _, f := range favorites {
			favorited[f.RecipeID] = true
		}

		var carts []models.ShoppingCart
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
			Find(&carts).Error; err != nil {
			return nil, err
		}
		for _, c := range carts {
			inCart[c.RecipeID] = true
		}

		var follows []models.Follow
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND following_id IN ?", *viewer, authorIDs).
			Find(&follows).Error; err != nil {
			return nil, err
		}
		for _, f := range follows {
			followed[f.FollowingID] = true
		}
	}

	for i := range recipes {
		r := &recipes[i]
		view := types.RecipeView{
			ID:   r.ID,
			Name: r.Name,
			Author: types.UserView{
				ID:           r.Author.ID,
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: followed[r.AuthorID],
			},
			Image:            r.ImageURL,
			Text:             r.Text,
			Tags:             r.Tags,
			CookingTime:      r.CookingTime,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
		for _, line := range r.Ingredients {
			view.Ingredients = append(view.Ingredients, types.IngredientLineView{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func validateCookingTime(minutes int) error {
	if minutes < models.MinCookingTime || minutes > models.MaxCookingTime {
		return errs.Validation("cooking time must be between %d and %d minutes",
			models.MinCookingTime, models.MaxCookingTime)
	}
	return nil
}

// validateLines checks the ingredient lines of a write payload:
// non-empty, no duplicate ingredient within one recipe, amounts in
// bounds.
func validateLines(lines []types.IngredientLineInput) error {
	if len(lines) == 0 {
		return errs.Validation("at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if seen[line.IngredientID] {
			return errs.Validation("duplicate ingredient in recipe")
		}
		seen[line.IngredientID] = true
		if line.Amount < models.MinAmount || line.Amount > models.MaxAmount {
			return errs.Validation("ingredient amount must be between %d and %d",
				models.MinAmount, models.MaxAmount)
		}
	}
	return nil
}

// resolveTags loads the referenced tags and fails when the set is empty
// or any id is unknown.
func resolveTags(tx *gorm.DB, tagIDs []uuid.UUID) ([]models.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, errs.Validation("at least one tag is required")
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(dedupe(tagIDs)) {
		return nil, errs.Validation("one or more tags do not exist")
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, lines []types.IngredientLineInput) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return errs.Validation("one or more ingredients do not exist")
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
