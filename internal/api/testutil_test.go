package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

type apiTest struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupMemoryDatabase(t)

	authService := service.NewAuthService(db, "test-secret")
	ingredientService := service.NewIngredientService(db)
	tagService := service.NewTagService(db)
	shoppingService := service.NewShoppingListService(db, nil)
	recipeService := service.NewRecipeService(db, ingredientService, shoppingService)
	relationService := service.NewRelationService(db)
	userService := service.NewUserService(db)

	engine := router.SetupRouter(router.Handlers{
		Auth:       api.NewAuthHandler(authService),
		User:       api.NewUserHandler(userService, relationService, authService, nil),
		Tag:        api.NewTagHandler(tagService),
		Ingredient: api.NewIngredientHandler(ingredientService),
		Recipe:     api.NewRecipeHandler(recipeService, relationService, shoppingService, nil, authService, nil),
	})

	return &apiTest{router: engine, db: db, auth: authService}
}

// registerUser creates an account directly through the service and returns
// the user with a valid bearer token.
func (a *apiTest) registerUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user, err := a.auth.Register(context.Background(), service.RegisterInput{
		Email:     fmt.Sprintf("%s@example.com", username),
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *apiTest) seedIngredient(t *testing.T, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, a.db.Create(&ingredient).Error)
	return &ingredient
}

func (a *apiTest) seedTag(t *testing.T, name, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: "49B64E", Slug: slug}
	require.NoError(t, a.db.Create(&tag).Error)
	return &tag
}

// do performs a request against the in-memory router. A non-empty token is
// sent as a bearer credential; a non-nil body is JSON-encoded.
func (a *apiTest) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
