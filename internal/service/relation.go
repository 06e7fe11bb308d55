package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// relationDef describes one membership edge kind. The toggle logic is
// implemented once over this descriptor and instantiated for favorites,
// cart items and subscriptions.
type relationDef struct {
	table       string
	subjectCol  string
	targetCol   string
	rejectSelf  bool
	newEdge     func(subject, target uuid.UUID) interface{}
	checkTarget func(tx *gorm.DB, target uuid.UUID) error
}

var (
	favoriteEdge = relationDef{
		table:      "favorites",
		subjectCol: "user_id",
		targetCol:  "recipe_id",
		newEdge: func(subject, target uuid.UUID) interface{} {
			return &models.Favorite{UserID: subject, RecipeID: target}
		},
		checkTarget: recipeExists,
	}

	cartEdge = relationDef{
		table:      "cart_items",
		subjectCol: "user_id",
		targetCol:  "recipe_id",
		newEdge: func(subject, target uuid.UUID) interface{} {
			return &models.CartItem{UserID: subject, RecipeID: target}
		},
		checkTarget: recipeExists,
	}

	subscriptionEdge = relationDef{
		table:      "subscriptions",
		subjectCol: "subscriber_id",
		targetCol:  "author_id",
		rejectSelf: true,
		newEdge: func(subject, target uuid.UUID) interface{} {
			return &models.Subscription{SubscriberID: subject, AuthorID: target}
		},
		checkTarget: userExists,
	}
)

// RelationService toggles membership edges between a user and a target
// entity. Adds and removes are idempotent in outcome: repeating a request
// reports a client error and leaves exactly the same single edge (or none).
type RelationService struct {
	db *gorm.DB
}

// NewRelationService creates a new RelationService instance
func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.add(ctx, favoriteEdge, userID, recipeID)
}

func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, favoriteEdge, userID, recipeID)
}

func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.add(ctx, cartEdge, userID, recipeID)
}

func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, cartEdge, userID, recipeID)
}

func (s *RelationService) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	return s.add(ctx, subscriptionEdge, subscriberID, authorID)
}

func (s *RelationService) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	return s.remove(ctx, subscriptionEdge, subscriberID, authorID)
}

func (s *RelationService) add(ctx context.Context, def relationDef, subject, target uuid.UUID) error {
	if def.rejectSelf && subject == target {
		return ErrInvalidTarget
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := def.checkTarget(tx, target); err != nil {
			return err
		}

		var count int64
		if err := tx.Table(def.table).
			Where(fmt.Sprintf("%s = ? AND %s = ?", def.subjectCol, def.targetCol), subject, target).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}

		if err := tx.Create(def.newEdge(subject, target)).Error; err != nil {
			// A racing insert loses to the unique index; report it the
			// same way as an observed duplicate.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (s *RelationService) remove(ctx context.Context, def relationDef, subject, target uuid.UUID) error {
	if def.rejectSelf && subject == target {
		return ErrInvalidTarget
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := def.checkTarget(tx, target); err != nil {
			return err
		}

		result := tx.Table(def.table).
			Where(fmt.Sprintf("%s = ? AND %s = ?", def.subjectCol, def.targetCol), subject, target).
			Delete(def.newEdge(subject, target))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRelationNotFound
		}
		return nil
	})
}

func recipeExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func userExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
