package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
)

func TestShoppingListAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewShoppingListService(db, nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")

	carrot := seedIngredient(t, db, "carrot", "pc")
	salt := seedIngredient(t, db, "salt", "g")
	beef := seedIngredient(t, db, "beef", "g")

	ctx := context.Background()
	soup := seedRecipe(t, db, alice, "Soup", amount(carrot.ID, 2), amount(salt.ID, 5))
	stew := seedRecipe(t, db, alice, "Stew", amount(carrot.ID, 3), amount(beef.ID, 400))

	require.NoError(t, relations.AddToCart(ctx, alice.ID, soup.ID))
	require.NoError(t, relations.AddToCart(ctx, alice.ID, stew.ID))

	items, err := svc.Aggregate(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Alphabetical by name; shared carrot lines collapse into one sum.
	assert.Equal(t, "beef", items[0].IngredientName)
	assert.EqualValues(t, 400, items[0].TotalAmount)
	assert.Equal(t, "carrot", items[1].IngredientName)
	assert.EqualValues(t, 5, items[1].TotalAmount)
	assert.Equal(t, "pc", items[1].MeasurementUnit)
	assert.Equal(t, "salt", items[2].IngredientName)
	assert.EqualValues(t, 5, items[2].TotalAmount)
}

func TestShoppingListSeparatesUnits(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewShoppingListService(db, nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")

	// Same name, different unit: distinct ingredient identities.
	gramSugar := seedIngredient(t, db, "sugar", "g")
	spoonSugar := seedIngredient(t, db, "sugar", "tbsp")

	ctx := context.Background()
	cake := seedRecipe(t, db, alice, "Cake", amount(gramSugar.ID, 200), amount(spoonSugar.ID, 2))
	require.NoError(t, relations.AddToCart(ctx, alice.ID, cake.ID))

	items, err := svc.Aggregate(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.EqualValues(t, 200, items[0].TotalAmount)
	assert.Equal(t, "tbsp", items[1].MeasurementUnit)
	assert.EqualValues(t, 2, items[1].TotalAmount)
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewShoppingListService(db, nil)
	alice := seedUser(t, db, "alice")

	_, err := svc.Aggregate(context.Background(), alice.ID)
	assert.ErrorIs(t, err, service.ErrEmptyCart)

	_, err = svc.Render(context.Background(), alice.ID)
	assert.ErrorIs(t, err, service.ErrEmptyCart)
}

func TestShoppingListRender(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewShoppingListService(db, nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")

	carrot := seedIngredient(t, db, "carrot", "pc")
	salt := seedIngredient(t, db, "salt", "g")

	ctx := context.Background()
	soup := seedRecipe(t, db, alice, "Soup", amount(carrot.ID, 2), amount(salt.ID, 5))
	require.NoError(t, relations.AddToCart(ctx, alice.ID, soup.ID))

	rendered, err := svc.Render(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Список покупок: \ncarrot — 2 (pc)\nsalt — 5 (g)\n", rendered)
}

func TestShoppingListScopedToUser(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewShoppingListService(db, nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	salt := seedIngredient(t, db, "salt", "g")

	ctx := context.Background()
	soup := seedRecipe(t, db, alice, "Soup", amount(salt.ID, 5))
	require.NoError(t, relations.AddToCart(ctx, bob.ID, soup.ID))

	_, err := svc.Aggregate(ctx, alice.ID)
	assert.ErrorIs(t, err, service.ErrEmptyCart)

	items, err := svc.Aggregate(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
