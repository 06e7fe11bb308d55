package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

func TestRecipeCreate(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	author := seedUser(t, db, "alice")
	salt := seedIngredient(t, db, "salt", "g")
	carrot := seedIngredient(t, db, "carrot", "pc")
	breakfast := seedTag(t, db, "Breakfast", "breakfast")

	view, err := svc.Create(context.Background(), author.ID, service.RecipeInput{
		Name:        "Morning Soup",
		Text:        "Boil everything.",
		CookingTime: 25,
		TagIDs:      []uuid.UUID{breakfast.ID},
		Ingredients: []types.IngredientAmount{
			amount(carrot.ID, 2),
			amount(salt.ID, 5),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Morning Soup", view.Name)
	assert.Equal(t, author.ID, view.Author.ID)
	assert.False(t, view.Author.IsSubscribed)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "carrot", view.Ingredients[0].Name)
	assert.Equal(t, 2, view.Ingredients[0].Amount)
	assert.Equal(t, "g", view.Ingredients[1].MeasurementUnit)
}

func TestRecipeCreateRejectsCookingTimeOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	author := seedUser(t, db, "alice")
	salt := seedIngredient(t, db, "salt", "g")

	for _, minutes := range []int{0, 601} {
		_, err := svc.Create(context.Background(), author.ID, service.RecipeInput{
			Name:        "Broken",
			Text:        "Nope.",
			CookingTime: minutes,
			Ingredients: []types.IngredientAmount{amount(salt.ID, 5)},
		})
		assert.ErrorIs(t, err, service.ErrCookingTimeRange)
	}

	for _, minutes := range []int{1, 600} {
		_, err := svc.Create(context.Background(), author.ID, service.RecipeInput{
			Name:        "Boundary " + string(rune('0'+minutes%10)),
			Text:        "Yes.",
			CookingTime: minutes,
			Ingredients: []types.IngredientAmount{amount(salt.ID, 5)},
		})
		assert.NoError(t, err)
	}
}

func TestRecipeCreateDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	salt := seedIngredient(t, db, "salt", "g")

	input := service.RecipeInput{
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 20,
		Ingredients: []types.IngredientAmount{amount(salt.ID, 5)},
	}

	_, err := svc.Create(context.Background(), alice.ID, input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), alice.ID, input)
	assert.ErrorIs(t, err, service.ErrDuplicateRecipeName)

	// Same name under a different author is fine.
	_, err = svc.Create(context.Background(), bob.ID, input)
	assert.NoError(t, err)
}

func TestRecipeCreateUnknownTag(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	author := seedUser(t, db, "alice")
	salt := seedIngredient(t, db, "salt", "g")

	_, err := svc.Create(context.Background(), author.ID, service.RecipeInput{
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{uuid.New()},
		Ingredients: []types.IngredientAmount{amount(salt.ID, 5)},
	})
	assert.ErrorIs(t, err, service.ErrTagNotFound)

	// The failed transaction must not leave a recipe behind.
	var count int64
	require.NoError(t, db.Table("recipes").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	author := seedUser(t, db, "alice")
	salt := seedIngredient(t, db, "salt", "g")
	carrot := seedIngredient(t, db, "carrot", "pc")
	breakfast := seedTag(t, db, "Breakfast", "breakfast")
	dinner := seedTag(t, db, "Dinner", "dinner")

	created, err := svc.Create(context.Background(), author.ID, service.RecipeInput{
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{breakfast.ID},
		Ingredients: []types.IngredientAmount{amount(salt.ID, 5)},
	})
	require.NoError(t, err)

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		name := "Better Soup"
		view, err := svc.Update(context.Background(), created.ID, author.ID, service.RecipeUpdate{
			Name: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Better Soup", view.Name)
		assert.Equal(t, "Boil.", view.Text)
		assert.Equal(t, 20, view.CookingTime)
		require.Len(t, view.Tags, 1)
		require.Len(t, view.Ingredients, 1)
	})

	t.Run("replaces tag set in full", func(t *testing.T) {
		tags := []uuid.UUID{dinner.ID}
		view, err := svc.Update(context.Background(), created.ID, author.ID, service.RecipeUpdate{
			TagIDs: &tags,
		})
		require.NoError(t, err)
		require.Len(t, view.Tags, 1)
		assert.Equal(t, "dinner", view.Tags[0].Slug)
	})

	t.Run("empty tag set clears all tags", func(t *testing.T) {
		tags := []uuid.UUID{}
		view, err := svc.Update(context.Background(), created.ID, author.ID, service.RecipeUpdate{
			TagIDs: &tags,
		})
		require.NoError(t, err)
		assert.Empty(t, view.Tags)
	})

	t.Run("replaces ingredient lines in full", func(t *testing.T) {
		lines := []types.IngredientAmount{amount(carrot.ID, 3)}
		view, err := svc.Update(context.Background(), created.ID, author.ID, service.RecipeUpdate{
			Ingredients: &lines,
		})
		require.NoError(t, err)
		require.Len(t, view.Ingredients, 1)
		assert.Equal(t, "carrot", view.Ingredients[0].Name)

		var count int64
		require.NoError(t, db.Table("recipe_ingredients").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rejects empty ingredient replacement", func(t *testing.T) {
		lines := []types.IngredientAmount{}
		_, err := svc.Update(context.Background(), created.ID, author.ID, service.RecipeUpdate{
			Ingredients: &lines,
		})
		assert.ErrorIs(t, err, service.ErrEmptyIngredientList)
	})
}

func TestRecipeUpdateAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	salt := seedIngredient(t, db, "salt", "g")

	created := seedRecipe(t, db, alice, "Soup", amount(salt.ID, 5))

	name := "Stolen Soup"
	_, err := svc.Update(context.Background(), created.ID, bob.ID, service.RecipeUpdate{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotRecipeAuthor)

	_, err = svc.Update(context.Background(), uuid.New(), alice.ID, service.RecipeUpdate{Name: &name})
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestRecipeDelete(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	salt := seedIngredient(t, db, "salt", "g")

	created := seedRecipe(t, db, alice, "Soup", amount(salt.ID, 5))
	require.NoError(t, relations.AddFavorite(context.Background(), bob.ID, created.ID))
	require.NoError(t, relations.AddToCart(context.Background(), bob.ID, created.ID))

	err := svc.Delete(context.Background(), created.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrNotRecipeAuthor)

	require.NoError(t, svc.Delete(context.Background(), created.ID, alice.ID))

	_, err = svc.Get(context.Background(), created.ID, nil)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	for _, table := range []string{"recipe_ingredients", "favorites", "cart_items"} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestRecipeListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	salt := seedIngredient(t, db, "salt", "g")
	breakfast := seedTag(t, db, "Breakfast", "breakfast")

	ctx := context.Background()
	soup, err := svc.Create(ctx, alice.ID, service.RecipeInput{
		Name:        "Soup",
		Text:        "Boil.",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{breakfast.ID},
		Ingredients: []types.IngredientAmount{amount(salt.ID, 5)},
	})
	require.NoError(t, err)
	stew := seedRecipe(t, db, bob, "Stew", amount(salt.ID, 3))

	require.NoError(t, relations.AddFavorite(ctx, bob.ID, soup.ID))
	require.NoError(t, relations.AddToCart(ctx, bob.ID, stew.ID))

	t.Run("no filter returns everything", func(t *testing.T) {
		views, total, err := svc.List(ctx, nil, types.RecipeFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, views, 2)
	})

	t.Run("tag slug filter", func(t *testing.T) {
		views, total, err := svc.List(ctx, nil, types.RecipeFilter{TagSlugs: []string{"breakfast"}})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, views, 1)
		assert.Equal(t, "Soup", views[0].Name)
	})

	t.Run("author filter", func(t *testing.T) {
		views, _, err := svc.List(ctx, nil, types.RecipeFilter{AuthorID: &bob.ID})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Stew", views[0].Name)
	})

	t.Run("favorited filter for a viewer", func(t *testing.T) {
		yes := true
		views, _, err := svc.List(ctx, &bob.ID, types.RecipeFilter{IsFavorited: &yes})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Soup", views[0].Name)
		assert.True(t, views[0].IsFavorited)

		no := false
		views, _, err = svc.List(ctx, &bob.ID, types.RecipeFilter{IsFavorited: &no})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Stew", views[0].Name)
	})

	t.Run("cart filter for a viewer", func(t *testing.T) {
		yes := true
		views, _, err := svc.List(ctx, &bob.ID, types.RecipeFilter{IsInShoppingCart: &yes})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Stew", views[0].Name)
		assert.True(t, views[0].IsInShoppingCart)
	})

	t.Run("membership filters ignored for anonymous viewers", func(t *testing.T) {
		yes := true
		_, total, err := svc.List(ctx, nil, types.RecipeFilter{IsFavorited: &yes})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("pagination caps results but reports full total", func(t *testing.T) {
		views, total, err := svc.List(ctx, nil, types.RecipeFilter{Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, views, 1)
	})
}

func TestRecipeViewMembershipFlags(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewRecipeService(db, service.NewIngredientService(db), nil)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	salt := seedIngredient(t, db, "salt", "g")

	ctx := context.Background()
	soup := seedRecipe(t, db, alice, "Soup", amount(salt.ID, 5))
	require.NoError(t, relations.AddFavorite(ctx, bob.ID, soup.ID))
	require.NoError(t, relations.Subscribe(ctx, bob.ID, alice.ID))

	asBob, err := svc.Get(ctx, soup.ID, &bob.ID)
	require.NoError(t, err)
	assert.True(t, asBob.IsFavorited)
	assert.False(t, asBob.IsInShoppingCart)
	assert.True(t, asBob.Author.IsSubscribed)

	anonymous, err := svc.Get(ctx, soup.ID, nil)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)
	assert.False(t, anonymous.Author.IsSubscribed)
}

// cartCacheRecorder captures which users had their shopping-list cache
// dropped.
type cartCacheRecorder struct {
	invalidated []uuid.UUID
}

func (r *cartCacheRecorder) Invalidate(_ context.Context, userID uuid.UUID) {
	r.invalidated = append(r.invalidated, userID)
}

func TestRecipeDeleteInvalidatesCartOwners(t *testing.T) {
	db := newTestDB(t)
	cache := &cartCacheRecorder{}
	svc := service.NewRecipeService(db, service.NewIngredientService(db), cache)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	salt := seedIngredient(t, db, "salt", "g")

	ctx := context.Background()
	soup := seedRecipe(t, db, alice, "Soup", amount(salt.ID, 5))
	require.NoError(t, relations.AddToCart(ctx, bob.ID, soup.ID))
	require.NoError(t, relations.AddToCart(ctx, carol.ID, soup.ID))

	require.NoError(t, svc.Delete(ctx, soup.ID, alice.ID))

	// Deleting the recipe emptied bob's and carol's carts behind their
	// backs, so their cached renderings must go too.
	assert.ElementsMatch(t, []uuid.UUID{bob.ID, carol.ID}, cache.invalidated)
}

func TestRecipeUpdateInvalidatesCartOwners(t *testing.T) {
	db := newTestDB(t)
	cache := &cartCacheRecorder{}
	svc := service.NewRecipeService(db, service.NewIngredientService(db), cache)
	relations := service.NewRelationService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	salt := seedIngredient(t, db, "salt", "g")
	carrot := seedIngredient(t, db, "carrot", "pc")

	ctx := context.Background()
	soup := seedRecipe(t, db, alice, "Soup", amount(salt.ID, 5))
	require.NoError(t, relations.AddToCart(ctx, bob.ID, soup.ID))

	// A rename leaves the list contents untouched and drops nothing.
	name := "Better Soup"
	_, err := svc.Update(ctx, soup.ID, alice.ID, service.RecipeUpdate{Name: &name})
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated)

	// Replacing the ingredient lines stales every cart holding the recipe.
	lines := []types.IngredientAmount{amount(carrot.ID, 3)}
	_, err = svc.Update(ctx, soup.ID, alice.ID, service.RecipeUpdate{Ingredients: &lines})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{bob.ID}, cache.invalidated)
}
