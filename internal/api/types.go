package api

import (
	"errors"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/types"
)

// errMalformedID reports a payload id that is not a UUID at all. This is
// input validation, distinct from a well-formed id that matches nothing.
var errMalformedID = errors.New("ingredient and tag ids must be valid UUIDs")

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Amount carries no "required" binding: zero is a legal JSON value that
// must reach the range check and fail with the amount error, not a
// generic binding error.
type ingredientAmountRequest struct {
	ID     string `json:"id" binding:"required"`
	Amount int    `json:"amount"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
	Image       string                    `json:"image"`
	Tags        []string                  `json:"tags"`
	Ingredients []ingredientAmountRequest `json:"ingredients"`
}

type updateRecipeRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	CookingTime *int                       `json:"cooking_time"`
	Image       *string                    `json:"image"`
	Tags        *[]string                  `json:"tags"`
	Ingredients *[]ingredientAmountRequest `json:"ingredients"`
}

func parseLines(raw []ingredientAmountRequest) ([]types.IngredientAmount, error) {
	lines := make([]types.IngredientAmount, 0, len(raw))
	for _, entry := range raw {
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, errMalformedID
		}
		lines = append(lines, types.IngredientAmount{
			IngredientID: id,
			Amount:       entry.Amount,
		})
	}
	return lines, nil
}

func parseTagIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, errMalformedID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
