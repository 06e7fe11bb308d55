package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// RecipeHandler serves the recipe aggregate, the membership toggles on
// recipes and the shopping-list download.
type RecipeHandler struct {
	recipeService   service.IRecipeService
	relationService service.IRelationService
	shoppingService service.IShoppingListService
	imageService    service.IImageService
	authService     service.IAuthService
	rateLimiter     *middleware.RateLimiter
}

// NewRecipeHandler creates a new RecipeHandler instance. imageService and
// rateLimiter may be nil; recipe images are then rejected and mutations
// run unthrottled.
func NewRecipeHandler(
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	shoppingService service.IShoppingListService,
	imageService service.IImageService,
	authService service.IAuthService,
	rateLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		relationService: relationService,
		shoppingService: shoppingService,
		imageService:    imageService,
		authService:     authService,
		rateLimiter:     rateLimiter,
	}
}

// RegisterRoutes wires the recipe endpoints. Reads allow anonymous
// callers; every mutation requires a bearer token.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.OptionalAuthMiddleware(h.authService))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}

	protected := router.Group("/recipes")
	protected.Use(middleware.AuthMiddleware(h.authService))
	if h.rateLimiter != nil {
		protected.Use(h.rateLimiter.RateLimitMiddleware())
	}
	{
		protected.POST("", h.CreateRecipe)
		protected.PATCH("/:id", h.UpdateRecipe)
		protected.DELETE("/:id", h.DeleteRecipe)
		protected.POST("/:id/favorite", h.AddFavorite)
		protected.DELETE("/:id/favorite", h.RemoveFavorite)
		protected.POST("/:id/shopping_cart", h.AddToCart)
		protected.DELETE("/:id/shopping_cart", h.RemoveFromCart)
		protected.GET("/download_shopping_cart", h.DownloadShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)

	filter := types.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Limit:    parseLimit(c.Query("limit")),
		Offset:   parseOffset(c.Query("offset")),
	}

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	if fav, ok := parseBoolFlag(c.Query("is_favorited")); ok {
		filter.IsFavorited = &fav
	}
	if cart, ok := parseBoolFlag(c.Query("is_in_shopping_cart")); ok {
		filter.IsInShoppingCart = &cart
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), viewerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": recipes,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), recipeID, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	tagIDs, err := parseTagIDs(req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	input.TagIDs = tagIDs

	lines, err := parseLines(req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	input.Ingredients = lines

	if req.Image != "" {
		imageURL, err := h.storeImage(c, req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
		input.ImageURL = imageURL
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), *userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.RecipeUpdate{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	if req.Tags != nil {
		tagIDs, err := parseTagIDs(*req.Tags)
		if err != nil {
			respondError(c, err)
			return
		}
		input.TagIDs = &tagIDs
	}
	if req.Ingredients != nil {
		lines, err := parseLines(*req.Ingredients)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Ingredients = &lines
	}
	if req.Image != nil && *req.Image != "" {
		imageURL, err := h.storeImage(c, *req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
		input.ImageURL = &imageURL
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), recipeID, *userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), recipeID, *userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.toggleAdd(c, h.relationService.AddFavorite, false)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.toggleRemove(c, h.relationService.RemoveFavorite, false)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.toggleAdd(c, h.relationService.AddToCart, true)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.toggleRemove(c, h.relationService.RemoveFromCart, true)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	rendered, err := h.shoppingService.Render(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rendered))
}

// toggleAdd runs an edge-add and responds with the recipe card the
// reference API returns on successful toggles.
func (h *RecipeHandler) toggleAdd(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) error, invalidateCart bool) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	if err := add(c.Request.Context(), *userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	if invalidateCart {
		h.shoppingService.Invalidate(c.Request.Context(), *userID)
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), recipeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.RecipeCard{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	})
}

func (h *RecipeHandler) toggleRemove(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error, invalidateCart bool) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), *userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	if invalidateCart {
		h.shoppingService.Invalidate(c.Request.Context(), *userID)
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) storeImage(c *gin.Context, payload string) (string, error) {
	if h.imageService == nil {
		return "", service.ErrInvalidImage
	}
	return h.imageService.UploadBase64(c.Request.Context(), payload)
}

func parseRecipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func parseOffset(raw string) int {
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// parseBoolFlag reads the 0/1 flags the listing filter uses. The second
// return is false when the parameter is absent or malformed.
func parseBoolFlag(raw string) (bool, bool) {
	switch raw {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		return false, false
	}
}
