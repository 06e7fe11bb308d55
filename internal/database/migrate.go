package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RunMigrations applies the schema for the full model set. The whole
// schema is expressed in gorm tags, so auto-migration covers Postgres and
// the in-memory SQLite used by tests alike.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.CartItem{},
	)
}
