package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

const shoppingListTTL = time.Hour

// ShoppingListService reduces a user's cart to one deduplicated ingredient
// list. The rendered document is cached in Redis per user; cart mutations
// invalidate it.
type ShoppingListService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewShoppingListService creates a new ShoppingListService instance. The
// Redis client may be nil, in which case rendering skips the cache.
func NewShoppingListService(db *gorm.DB, redisClient *redis.Client) *ShoppingListService {
	return &ShoppingListService{
		db:    db,
		redis: redisClient,
	}
}

// Aggregate collects every ingredient line across the user's cart recipes,
// grouped by ingredient identity (name, measurement unit) with amounts
// summed. Groups come back alphabetically by name, then unit, so the output
// is deterministic. Read-only.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	db := s.db.WithContext(ctx)

	var cartSize int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartSize).Error; err != nil {
		return nil, err
	}
	if cartSize == 0 {
		return nil, ErrEmptyCart
	}

	var items []types.ShoppingListItem
	err := db.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS ingredient_name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)",
			s.db.Model(&models.CartItem{}).Select("recipe_id").Where("user_id = ?", userID)).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render produces the downloadable plain-text shopping list.
func (s *ShoppingListService) Render(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, shoppingListKey(userID)).Result()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			log.Printf("shopping list cache read failed: %v", err)
		}
	}

	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Список покупок: \n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s — %d (%s)\n", item.IngredientName, item.TotalAmount, item.MeasurementUnit)
	}
	rendered := b.String()

	if s.redis != nil {
		if err := s.redis.Set(ctx, shoppingListKey(userID), rendered, shoppingListTTL).Err(); err != nil {
			log.Printf("shopping list cache write failed: %v", err)
		}
	}
	return rendered, nil
}

// Invalidate drops the cached rendering for a user. Called after any cart
// mutation.
func (s *ShoppingListService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, shoppingListKey(userID)).Err(); err != nil {
		log.Printf("shopping list cache invalidation failed: %v", err)
	}
}

func shoppingListKey(userID uuid.UUID) string {
	return "shopping_list:" + userID.String()
}
