package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService serves user profiles and the subscriptions listing.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get returns a user as seen by viewerID. is_subscribed is false for
// anonymous viewers and for a user viewing themselves.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID) (*types.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, &user, viewerID)
}

// List returns users ordered by signup date, newest first.
func (s *UserService) List(ctx context.Context, viewerID *uuid.UUID, limit, offset int) ([]types.UserView, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	views := make([]types.UserView, 0, len(users))
	for i := range users {
		view, err := s.buildView(ctx, &users[i], viewerID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}
	return views, total, nil
}

// Subscriptions returns the authors the user follows, each with their
// recipe cards and recipe count. recipesLimit > 0 caps the cards per
// author.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]types.SubscriptionView, error) {
	db := s.db.WithContext(ctx)

	var subs []models.Subscription
	if err := db.Preload("Author").
		Where("subscriber_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}

	views := make([]types.SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		if sub.Author == nil {
			continue
		}

		view := types.SubscriptionView{
			UserView: types.UserView{
				ID:           sub.Author.ID,
				Email:        sub.Author.Email,
				Username:     sub.Author.Username,
				FirstName:    sub.Author.FirstName,
				LastName:     sub.Author.LastName,
				IsSubscribed: true,
			},
			Recipes: []types.RecipeCard{},
		}

		if err := db.Model(&models.Recipe{}).
			Where("author_id = ?", sub.AuthorID).
			Count(&view.RecipesCount).Error; err != nil {
			return nil, err
		}

		recipeQuery := db.Where("author_id = ?", sub.AuthorID).Order("created_at DESC")
		if recipesLimit > 0 {
			recipeQuery = recipeQuery.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := recipeQuery.Find(&recipes).Error; err != nil {
			return nil, err
		}
		for _, recipe := range recipes {
			view.Recipes = append(view.Recipes, types.RecipeCard{
				ID:          recipe.ID,
				Name:        recipe.Name,
				Image:       recipe.ImageURL,
				CookingTime: recipe.CookingTime,
			})
		}

		views = append(views, view)
	}
	return views, nil
}

func (s *UserService) buildView(ctx context.Context, user *models.User, viewerID *uuid.UUID) (*types.UserView, error) {
	view := &types.UserView{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	if viewerID != nil && *viewerID != user.ID {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
			Where("subscriber_id = ? AND author_id = ?", *viewerID, user.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		view.IsSubscribed = count > 0
	}
	return view, nil
}
