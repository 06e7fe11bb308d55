package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

// IngredientHandler serves the read-only ingredient catalog.
type IngredientHandler struct {
	ingredientService *service.IngredientService
}

// NewIngredientHandler creates a new IngredientHandler instance
func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// RegisterRoutes wires the ingredient endpoints. Anonymous access is allowed.
func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	ingredient, err := h.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
