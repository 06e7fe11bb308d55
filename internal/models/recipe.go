package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 600

	MinIngredientAmount = 1
	MaxIngredientAmount = 1000
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:200;not null;uniqueIndex:idx_name_author" json:"name"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_name_author" json:"author_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	ImageURL    string    `gorm:"size:255" json:"image_url"`

	Author      *User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one line of a recipe's ingredient list. Lines are
// owned by the recipe and replaced as a set; a recipe never carries two
// lines for the same ingredient.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
