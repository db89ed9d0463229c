package model

import "time"

// Ingredient is one line of an owned recipe. Quantity is free text
// ("2 cups", "a pinch").
type Ingredient struct {
	Name     string `json:"name"`               // recipe_ingredients.name
	Quantity string `json:"quantity,omitempty"` // recipe_ingredients.quantity
}

// Recipe represents a row of the `recipes` table together with its
// ordered `recipe_ingredients`.
type Recipe struct {
	ID           uint64       `json:"id"`                 // recipes.id
	UserID       uint64       `json:"userId"`             // recipes.user_id
	Title        string       `json:"title"`              // recipes.title
	Ingredients  []Ingredient `json:"ingredients"`        // recipe_ingredients ordered by position
	Instructions string       `json:"instructions"`       // recipes.instructions
	ImageURL     string       `json:"imageUrl,omitempty"` // recipes.image_url
	CreatedAt    time.Time    `json:"createdAt"`          // recipes.created_at
	UpdatedAt    time.Time    `json:"updatedAt"`          // recipes.updated_at
}

// SuggestedIngredient is an ingredient reported by the recipe search API.
type SuggestedIngredient struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original"`
	Image    string  `json:"image,omitempty"`
}

// SuggestedRecipe is an external search result. It is not stored until a
// user saves it.
type SuggestedRecipe struct {
	ID                    int64                 `json:"id"`
	Title                 string                `json:"title"`
	Image                 string                `json:"image"`
	UsedIngredientCount   int                   `json:"usedIngredientCount"`
	MissedIngredientCount int                   `json:"missedIngredientCount"`
	UsedIngredients       []SuggestedIngredient `json:"usedIngredients"`
	MissedIngredients     []SuggestedIngredient `json:"missedIngredients"`
	Instructions          string                `json:"instructions,omitempty"`
}

// RecipeSource is either an OwnedRecipe or a SuggestedRecipe. The set is
// closed: only this package can add variants.
type RecipeSource interface {
	recipeSource()
}

// OwnedRecipe wraps a stored recipe.
type OwnedRecipe struct {
	Recipe Recipe
}

func (OwnedRecipe) recipeSource()     {}
func (SuggestedRecipe) recipeSource() {}

// Recipe kinds reported in RecipeDetails.
const (
	RecipeKindOwned     = "owned"
	RecipeKindSuggested = "suggested"
)

// RecipeDetails is the uniform view of either recipe variant.
type RecipeDetails struct {
	Kind               string       `json:"kind"`
	RecipeID           *uint64      `json:"recipeId,omitempty"`
	ExternalID         *int64       `json:"externalId,omitempty"`
	Title              string       `json:"title"`
	Ingredients        []Ingredient `json:"ingredients"`
	MissingIngredients []string     `json:"missingIngredients,omitempty"`
	Instructions       string       `json:"instructions"`
	ImageURL           string       `json:"imageUrl,omitempty"`
}
