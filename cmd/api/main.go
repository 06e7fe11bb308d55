package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
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

	// Redis backs the shopping-list cache and the rate limiter. The API
	// still serves without it, just slower and unthrottled.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	s3Config, err := config.NewS3Config(ctx, cfg)
	cancel()
	if err != nil {
		log.Printf("S3 unavailable, recipe image uploads disabled: %v", err)
		s3Config = nil
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	ingredientService := service.NewIngredientService(db)
	tagService := service.NewTagService(db)
	shoppingService := service.NewShoppingListService(db, redisClient)
	recipeService := service.NewRecipeService(db, ingredientService, shoppingService)
	relationService := service.NewRelationService(db)
	userService := service.NewUserService(db)

	var imageService service.IImageService
	if s3Config != nil {
		imageService = service.NewImageService(s3Config)
	}

	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit",
		})
	}

	handlers := router.Handlers{
		Auth:       api.NewAuthHandler(authService),
		User:       api.NewUserHandler(userService, relationService, authService, rateLimiter),
		Tag:        api.NewTagHandler(tagService),
		Ingredient: api.NewIngredientHandler(ingredientService),
		Recipe: api.NewRecipeHandler(
			recipeService,
			relationService,
			shoppingService,
			imageService,
			authService,
			rateLimiter,
		),
	}

	srv := server.New(cfg, router.SetupRouter(handlers))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
