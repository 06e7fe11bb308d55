package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

var hexColorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// TagService serves the tag reference data.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagService instance
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Get retrieves one tag by ID.
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// NormalizeColor strips a leading '#' and validates the remaining hex
// triplet. Used on seed input; tags are read-only through the API.
func NormalizeColor(color string) (string, error) {
	color = strings.TrimPrefix(color, "#")
	if !hexColorRe.MatchString(color) {
		return "", ErrInvalidColor
	}
	return color, nil
}
