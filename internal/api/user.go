package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// UserHandler serves user profiles and subscriptions.
type UserHandler struct {
	userService     *service.UserService
	relationService service.IRelationService
	authService     service.IAuthService
	rateLimiter     *middleware.RateLimiter
}

// NewUserHandler creates a new UserHandler instance. rateLimiter may be
// nil, in which case subscription writes run unthrottled.
func NewUserHandler(userService *service.UserService, relationService service.IRelationService, authService service.IAuthService, rateLimiter *middleware.RateLimiter) *UserHandler {
	return &UserHandler{
		userService:     userService,
		relationService: relationService,
		authService:     authService,
		rateLimiter:     rateLimiter,
	}
}

// RegisterRoutes wires the user endpoints.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.OptionalAuthMiddleware(h.authService))
	{
		users.GET("", h.ListUsers)
	}

	protected := router.Group("/users")
	protected.Use(middleware.AuthMiddleware(h.authService))
	if h.rateLimiter != nil {
		protected.Use(h.rateLimiter.RateLimitMiddleware())
	}
	{
		protected.GET("/me", h.Me)
		protected.GET("/subscriptions", h.Subscriptions)
		protected.POST("/:id/subscribe", h.Subscribe)
		protected.DELETE("/:id/subscribe", h.Unsubscribe)
	}

	// Registered after the static segments so gin resolves /me and
	// /subscriptions first.
	users.GET("/:id", h.GetUser)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, total, err := h.userService.List(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		parseLimit(c.Query("limit")),
		parseOffset(c.Query("offset")),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": users,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	if viewerID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.userService.Get(c.Request.Context(), *viewerID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	if viewerID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipesLimit := parseOffset(c.Query("recipes_limit"))
	subscriptions, err := h.userService.Subscriptions(c.Request.Context(), *viewerID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": subscriptions})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	if viewerID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	authorID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.relationService.Subscribe(c.Request.Context(), *viewerID, authorID); err != nil {
		respondError(c, err)
		return
	}

	author, err := h.userService.Get(c.Request.Context(), authorID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	if viewerID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	authorID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.relationService.Unsubscribe(c.Request.Context(), *viewerID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
