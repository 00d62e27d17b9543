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

// FollowService manages the directed author-follow graph.
type FollowService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewFollowService(db *gorm.DB, log zerolog.Logger) *FollowService {
	return &FollowService{
		db:  db,
		log: log.With().Str("service", "follow").Logger(),
	}
}

// Follow inserts the user→author edge. Self-follow is invalid, a
// duplicate edge is a conflict.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uuid.UUID) (*types.SubscriptionView, error) {
	if userID == authorID {
		return nil, errs.Validation("you cannot follow yourself")
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		return nil, errs.FromDB(err, "author not found")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND following_id = ?", userID, authorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.Conflict("you already follow this author")
		}
		edge := models.Follow{UserID: userID, FollowingID: authorID}
		return errs.FromDB(tx.Create(&edge).Error, "you already follow this author")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("author_id", authorID.String()).
		Msg("follow edge created")

	view, err := s.subscriptionView(ctx, &author, 0)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Unfollow removes the user→author edge; a missing edge is not found.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("you do not follow this author")
	}
	return nil
}

// ListFollowing returns the authors the user follows, each with up to
// recipesLimit recipe previews and their total recipe count. A
// non-positive limit returns all recipes.
func (s *FollowService) ListFollowing(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]types.SubscriptionView, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	views := make([]types.SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := s.subscriptionView(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *FollowService) subscriptionView(ctx context.Context, author *models.User, recipesLimit int) (*types.SubscriptionView, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	view := types.SubscriptionView{
		UserView: types.UserView{
			ID:        author.ID,
			Email:     author.Email,
			Username:  author.Username,
			FirstName: author.FirstName,
			LastName:  author.LastName,
			// The listing is the follower's own subscription feed.
			IsSubscribed: true,
		},
		Recipes:      make([]types.RecipePreview, 0, len(recipes)),
		RecipesCount: total,
	}
	for i := range recipes {
		view.Recipes = append(view.Recipes, types.PreviewOf(&recipes[i]))
	}
	return &view, nil
}
