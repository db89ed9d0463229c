// Package service holds the application operations behind the HTTP
// handlers: credential handling, ownership-checked grocery and recipe
// CRUD, and recipe suggestions. Services return *apperr.Error for every
// failure a client can act on.
package service

import (
	"context"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

// UserStore persists accounts. Implementations return
// repository.ErrNotFound and repository.ErrEmailExists.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// GroceryStore persists grocery items.
type GroceryStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.GroceryItem, error)
	GetByID(ctx context.Context, id uint64) (*model.GroceryItem, error)
	Create(ctx context.Context, g *model.GroceryItem) error
	Update(ctx context.Context, g *model.GroceryItem) error
	Delete(ctx context.Context, id, userID uint64) error
}

// RecipeStore persists owned recipes with their ingredient lists.
type RecipeStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Recipe, error)
	GetByID(ctx context.Context, id uint64) (*model.Recipe, error)
	Create(ctx context.Context, r *model.Recipe) error
	Update(ctx context.Context, r *model.Recipe) error
	Delete(ctx context.Context, id, userID uint64) error
}

// RecipeFinder searches an external catalogue by ingredient names.
type RecipeFinder interface {
	FindByIngredients(ctx context.Context, ingredients []string) ([]model.SuggestedRecipe, error)
}
