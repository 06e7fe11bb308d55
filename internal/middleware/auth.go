package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/types"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that requires a valid bearer token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, validator)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a valid token is present
// and lets anonymous requests through. Read endpoints use it so responses
// can carry per-viewer fields without requiring login.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, validator); ok {
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller, or nil for anonymous
// requests.
func CurrentUserID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

func parseBearer(c *gin.Context, validator TokenValidator) (*types.TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
