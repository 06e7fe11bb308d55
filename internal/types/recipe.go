package types

import (
	"time"

	"github.com/google/uuid"
)

// IngredientAmount is one submitted (ingredient, amount) pair of a
// recipe payload, before validation.
type IngredientAmount struct {
	IngredientID uuid.UUID `json:"id"`
	Amount       int       `json:"amount"`
}

// RecipeIngredientView is a recipe line joined to its ingredient identity.
type RecipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// UserView is a user as presented to a viewer.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// TagView mirrors the tag reference data.
type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// RecipeView is the full per-viewer presentation of a recipe.
type RecipeView struct {
	ID                uuid.UUID              `json:"id"`
	Tags              []TagView              `json:"tags"`
	Author            UserView               `json:"author"`
	Ingredients       []RecipeIngredientView `json:"ingredients"`
	IsFavorited       bool                   `json:"is_favorited"`
	IsInShoppingCart  bool                   `json:"is_in_shopping_cart"`
	Name              string                 `json:"name"`
	Image             string                 `json:"image"`
	Text              string                 `json:"text"`
	CookingTime       int                    `json:"cooking_time"`
	CreatedAt         time.Time              `json:"created_at"`
}

// RecipeCard is the short recipe representation used in toggle responses
// and subscription listings.
type RecipeCard struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionView is a subscribed author with their recipes.
type SubscriptionView struct {
	UserView
	Recipes      []RecipeCard `json:"recipes"`
	RecipesCount int64        `json:"recipes_count"`
}

// ShoppingListItem is one aggregated group of the shopping list.
type ShoppingListItem struct {
	IngredientName  string `json:"ingredient_name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// RecipeFilter narrows a recipe listing. Tri-state membership filters are
// nil when the query parameter is absent.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uuid.UUID
	IsFavorited      *bool
	IsInShoppingCart *bool
	Limit            int
	Offset           int
}
