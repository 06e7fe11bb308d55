package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/service"
)

// respondError maps the service error taxonomy to HTTP statuses. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyIngredientList),
		errors.Is(err, service.ErrDuplicateIngredient),
		errors.Is(err, service.ErrAmountOutOfRange),
		errors.Is(err, service.ErrCookingTimeRange),
		errors.Is(err, service.ErrInvalidColor),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrDuplicateRecipeName),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, errMalformedID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNotRecipeAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrIngredientNotFound),
		errors.Is(err, service.ErrRelationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
