package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "49B64E", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines ...types.IngredientAmount) *types.RecipeView {
	t.Helper()
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	view, err := svc.Create(context.Background(), author.ID, service.RecipeInput{
		Name:        name,
		Text:        "Cook it.",
		CookingTime: 30,
		Ingredients: lines,
	})
	require.NoError(t, err)
	return view
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testhelpers.SetupMemoryDatabase(t)
}

func amount(id uuid.UUID, n int) types.IngredientAmount {
	return types.IngredientAmount{IngredientID: id, Amount: n}
}
