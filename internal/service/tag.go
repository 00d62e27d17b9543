package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/forkfeed/backend/internal/errs"
	"github.com/forkfeed/backend/internal/models"
)

// TagService serves the controlled tag vocabulary. Tags are
// admin-managed; the API surface only reads them.
type TagService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewTagService(db *gorm.DB, log zerolog.Logger) *TagService {
	return &TagService{
		db:  db,
		log: log.With().Str("service", "tag").Logger(),
	}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, errs.FromDB(err, "tag not found")
	}
	return &tag, nil
}
