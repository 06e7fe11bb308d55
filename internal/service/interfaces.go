package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe aggregate operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*types.RecipeView, error)
	Update(ctx context.Context, recipeID, actorID uuid.UUID, input RecipeUpdate) (*types.RecipeView, error)
	Delete(ctx context.Context, recipeID, actorID uuid.UUID) error
	Get(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*types.RecipeView, error)
	List(ctx context.Context, viewerID *uuid.UUID, filter types.RecipeFilter) ([]types.RecipeView, int64, error)
}

// IShoppingListService defines the interface for cart aggregation
type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error)
	Render(ctx context.Context, userID uuid.UUID) (string, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// IRelationService defines the interface for membership edge toggles
type IRelationService interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
	Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
}

// IImageService defines the interface for image storage
type IImageService interface {
	UploadBase64(ctx context.Context, payload string) (string, error)
}
