package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeInput carries the full payload of a recipe creation.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uuid.UUID
	Ingredients []types.IngredientAmount
}

// RecipeUpdate carries a partial update. Nil fields keep their prior
// value; a non-nil TagIDs or Ingredients replaces the whole set.
type RecipeUpdate struct {
	Name        *string
	Text        *string
	CookingTime *int
	ImageURL    *string
	TagIDs      *[]uuid.UUID
	Ingredients *[]types.IngredientAmount
}

// CartCache drops a user's cached shopping-list rendering. The recipe
// service calls it when a delete or ingredient replacement changes cart
// contents behind the cart owners' backs.
type CartCache interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// RecipeService owns the recipe aggregate: the recipe row, its tag set and
// its ingredient lines change together, all-or-nothing.
type RecipeService struct {
	db          *gorm.DB
	ingredients *IngredientService
	cache       CartCache
}

// NewRecipeService creates a new RecipeService instance. cache may be nil,
// in which case no shopping-list renderings are invalidated.
func NewRecipeService(db *gorm.DB, ingredients *IngredientService, cache CartCache) *RecipeService {
	return &RecipeService{
		db:          db,
		ingredients: ingredients,
		cache:       cache,
	}
}

// Create validates and persists a new recipe with its tag set and
// ingredient lines in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*types.RecipeView, error) {
	if input.CookingTime < models.MinCookingTime || input.CookingTime > models.MaxCookingTime {
		return nil, ErrCookingTimeRange
	}

	lines, err := s.ingredients.ValidateLines(ctx, input.Ingredients)
	if err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Recipe{}).
			Where("name = ? AND author_id = ?", input.Name, authorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRecipeName
		}

		recipe := models.Recipe{
			Name:        input.Name,
			AuthorID:    authorID,
			Text:        input.Text,
			CookingTime: input.CookingTime,
			ImageURL:    input.ImageURL,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRecipeName
			}
			return err
		}

		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID, &authorID)
}

// Update applies a partial update to a recipe owned by actorID. Present
// tag or ingredient sets are replaced in full, never merged.
func (s *RecipeService) Update(ctx context.Context, recipeID, actorID uuid.UUID, input RecipeUpdate) (*types.RecipeView, error) {
	if input.CookingTime != nil &&
		(*input.CookingTime < models.MinCookingTime || *input.CookingTime > models.MaxCookingTime) {
		return nil, ErrCookingTimeRange
	}

	var lines []models.RecipeIngredient
	if input.Ingredients != nil {
		validated, err := s.ingredients.ValidateLines(ctx, *input.Ingredients)
		if err != nil {
			return nil, err
		}
		lines = validated
	}

	var cartOwners []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrNotRecipeAuthor
		}

		// Replacing the ingredient lines changes what the recipe
		// contributes to carts holding it.
		if input.Ingredients != nil {
			if err := tx.Model(&models.CartItem{}).
				Where("recipe_id = ?", recipe.ID).
				Distinct("user_id").
				Pluck("user_id", &cartOwners).Error; err != nil {
				return err
			}
		}

		if input.Name != nil && *input.Name != recipe.Name {
			var count int64
			if err := tx.Model(&models.Recipe{}).
				Where("name = ? AND author_id = ? AND id <> ?", *input.Name, actorID, recipeID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateRecipeName
			}
			recipe.Name = *input.Name
		}
		if input.Text != nil {
			recipe.Text = *input.Text
		}
		if input.CookingTime != nil {
			recipe.CookingTime = *input.CookingTime
		}
		if input.ImageURL != nil {
			recipe.ImageURL = *input.ImageURL
		}

		if err := tx.Save(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRecipeName
			}
			return err
		}

		if input.TagIDs != nil {
			tags, err := resolveTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
					return err
				}
			} else if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		if input.Ingredients != nil {
			// Full replacement: old lines removed, validated ones inserted.
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			for i := range lines {
				lines[i].RecipeID = recipe.ID
			}
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCarts(ctx, cartOwners)
	return s.Get(ctx, recipeID, &actorID)
}

// Delete removes a recipe and, via cascade, its lines and membership edges.
// Every user holding the recipe in their cart gets their cached shopping
// list dropped, since the deletion shrank their cart behind their back.
func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uuid.UUID) error {
	var cartOwners []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrNotRecipeAuthor
		}

		if err := tx.Model(&models.CartItem{}).
			Where("recipe_id = ?", recipe.ID).
			Distinct("user_id").
			Pluck("user_id", &cartOwners).Error; err != nil {
			return err
		}

		// Explicit cascade keeps SQLite test runs honest; Postgres would
		// handle the edges through FK constraints anyway.
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CartItem{}).Error; err != nil {
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

	s.invalidateCarts(ctx, cartOwners)
	return nil
}

func (s *RecipeService) invalidateCarts(ctx context.Context, owners []uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, owner := range owners {
		s.cache.Invalidate(ctx, owner)
	}
}

// Get returns the recipe as seen by viewerID. A nil viewer gets
// is_favorited and is_in_shopping_cart as false.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*types.RecipeView, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, &recipe, viewerID)
}

// List returns recipes newest-first, narrowed by the filter, along with the
// total match count for pagination.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter types.RecipeFilter) ([]types.RecipeView, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	// Membership filters only apply for an authenticated viewer; anonymous
	// listings ignore them, as the reference behavior does.
	if viewerID != nil {
		if filter.IsFavorited != nil {
			sub := s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *viewerID)
			if *filter.IsFavorited {
				query = query.Where("recipes.id IN (?)", sub)
			} else {
				query = query.Where("recipes.id NOT IN (?)", sub)
			}
		}
		if filter.IsInShoppingCart != nil {
			sub := s.db.Model(&models.CartItem{}).Select("recipe_id").Where("user_id = ?", *viewerID)
			if *filter.IsInShoppingCart {
				query = query.Where("recipes.id IN (?)", sub)
			} else {
				query = query.Where("recipes.id NOT IN (?)", sub)
			}
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.buildView(ctx, &recipes[i], viewerID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}
	return views, total, nil
}

func (s *RecipeService) buildView(ctx context.Context, recipe *models.Recipe, viewerID *uuid.UUID) (*types.RecipeView, error) {
	view := &types.RecipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
		Tags:        make([]types.TagView, 0, len(recipe.Tags)),
		Ingredients: make([]types.RecipeIngredientView, 0, len(recipe.Ingredients)),
	}

	for _, tag := range recipe.Tags {
		view.Tags = append(view.Tags, types.TagView{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
			Slug:  tag.Slug,
		})
	}
	for _, line := range recipe.Ingredients {
		item := types.RecipeIngredientView{
			ID:     line.IngredientID,
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		view.Ingredients = append(view.Ingredients, item)
	}

	if recipe.Author != nil {
		view.Author = types.UserView{
			ID:        recipe.Author.ID,
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
		}
	}

	if viewerID == nil {
		return view, nil
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", *viewerID, recipe.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	view.IsFavorited = count > 0

	if err := db.Model(&models.CartItem{}).
		Where("user_id = ? AND recipe_id = ?", *viewerID, recipe.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	view.IsInShoppingCart = count > 0

	if recipe.Author != nil && *viewerID != recipe.AuthorID {
		if err := db.Model(&models.Subscription{}).
			Where("subscriber_id = ? AND author_id = ?", *viewerID, recipe.AuthorID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		view.Author.IsSubscribed = count > 0
	}

	return view, nil
}

func resolveTags(tx *gorm.DB, tagIDs []uuid.UUID) ([]models.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}
