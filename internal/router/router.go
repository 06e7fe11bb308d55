package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/api"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth       *api.AuthHandler
	User       *api.UserHandler
	Tag        *api.TagHandler
	Ingredient *api.IngredientHandler
	Recipe     *api.RecipeHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	h.Auth.RegisterRoutes(v1)
	h.User.RegisterRoutes(v1)
	h.Tag.RegisterRoutes(v1)
	h.Ingredient.RegisterRoutes(v1)
	h.Recipe.RegisterRoutes(v1)

	return router
}
