package service

import "errors"

// Validation failures: malformed or out-of-range input. Always reported to
// the client, never retried.
var (
	ErrEmptyIngredientList = errors.New("ingredient list must not be empty")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrAmountOutOfRange    = errors.New("ingredient amount must be between 1 and 1000")
	ErrCookingTimeRange    = errors.New("cooking time must be between 1 and 600 minutes")
	ErrInvalidColor        = errors.New("color must be a six-digit hex value")
	ErrEmptyCart           = errors.New("shopping cart is empty")
	ErrInvalidTarget       = errors.New("operation cannot target its own subject")
)

// Missing entities.
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRelationNotFound   = errors.New("relation does not exist")
)

// Conflicts: uniqueness violations.
var (
	ErrDuplicateRecipeName = errors.New("author already has a recipe with this name")
	ErrAlreadyExists       = errors.New("relation already exists")
	ErrUserExists          = errors.New("user with this email or username already exists")
)

// Auth failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotRecipeAuthor    = errors.New("only the author can modify this recipe")
)
