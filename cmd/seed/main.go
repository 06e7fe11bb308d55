package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagFixture struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "Path to the ingredient fixture")
	tagsPath := flag.String("tags", "data/tags.json", "Path to the tag fixture")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seedIngredients(db, *ingredientsPath); err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	if err := seedTags(db, *tagsPath); err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}
	log.Println("Seeding complete")
}

func seedIngredients(db *gorm.DB, path string) error {
	var fixtures []ingredientFixture
	if err := loadFixture(path, &fixtures); err != nil {
		return err
	}

	ingredients := make([]models.Ingredient, 0, len(fixtures))
	for _, f := range fixtures {
		ingredients = append(ingredients, models.Ingredient{
			Name:            f.Name,
			MeasurementUnit: f.MeasurementUnit,
		})
	}

	// Re-running the seeder must not duplicate catalog rows.
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, 500).Error
	if err != nil {
		return err
	}
	log.Printf("Seeded %d ingredients from %s", len(ingredients), path)
	return nil
}

func seedTags(db *gorm.DB, path string) error {
	var fixtures []tagFixture
	if err := loadFixture(path, &fixtures); err != nil {
		return err
	}

	for _, f := range fixtures {
		color, err := service.NormalizeColor(f.Color)
		if err != nil {
			log.Printf("Skipping tag %q: invalid color %q", f.Name, f.Color)
			continue
		}
		tag := models.Tag{Name: f.Name, Color: color, Slug: f.Slug}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d tags from %s", len(fixtures), path)
	return nil
}

func loadFixture(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
