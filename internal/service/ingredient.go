package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// IngredientService serves the ingredient catalog and validates recipe
// ingredient lines against it.
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientService instance
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns catalog entries, optionally narrowed to a name prefix.
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Order("name, measurement_unit")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Get retrieves one catalog entry by ID.
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// ValidateLines checks a submitted ingredient list and resolves it against
// the catalog. It rejects empty lists, repeated ingredients and amounts
// outside [1, 1000], and returns the lines in input order. It never writes.
func (s *IngredientService) ValidateLines(ctx context.Context, raw []types.IngredientAmount) ([]models.RecipeIngredient, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyIngredientList
	}

	seen := make(map[uuid.UUID]struct{}, len(raw))
	lines := make([]models.RecipeIngredient, 0, len(raw))
	for _, entry := range raw {
		if _, dup := seen[entry.IngredientID]; dup {
			return nil, ErrDuplicateIngredient
		}
		seen[entry.IngredientID] = struct{}{}

		if entry.Amount < models.MinIngredientAmount || entry.Amount > models.MaxIngredientAmount {
			return nil, ErrAmountOutOfRange
		}

		var ingredient models.Ingredient
		if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", entry.IngredientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIngredientNotFound
			}
			return nil, err
		}

		lines = append(lines, models.RecipeIngredient{
			IngredientID: ingredient.ID,
			Amount:       entry.Amount,
			Ingredient:   &ingredient,
		})
	}
	return lines, nil
}
