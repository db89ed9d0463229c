package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const noInstructions = "No instructions available."

type IngredientInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" validate:"max=120"`
}

type CreateRecipeInput struct {
	Title        string            `json:"title" validate:"required,max=255"`
	Ingredients  []IngredientInput `json:"ingredients" validate:"max=100,dive"`
	Instructions string            `json:"instructions" validate:"required"`
	ImageURL     string            `json:"imageUrl" validate:"max=2048"`
}

// UpdateRecipeInput replaces the ingredient list wholesale when it is
// present, including with an empty list.
type UpdateRecipeInput struct {
	Title        *string            `json:"title" validate:"omitnil,min=1,max=255"`
	Ingredients  *[]IngredientInput `json:"ingredients" validate:"omitnil,max=100,dive"`
	Instructions *string            `json:"instructions" validate:"omitnil,min=1"`
	ImageURL     *string            `json:"imageUrl" validate:"omitnil,max=2048"`
}

type RecipeService struct {
	store     RecipeStore
	groceries GroceryStore
	finder    RecipeFinder
	validate  *utils.Validator
}

// NewRecipeService wires the recipe operations. finder may be nil when no
// external API key is configured; Suggest then fails with UpstreamFailure.
func NewRecipeService(store RecipeStore, groceries GroceryStore, finder RecipeFinder, validate *utils.Validator) *RecipeService {
	return &RecipeService{store: store, groceries: groceries, finder: finder, validate: validate}
}

func (s *RecipeService) List(ctx context.Context, identity uint64) ([]model.Recipe, error) {
	recipes, err := s.store.ListByUser(ctx, identity)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list recipes")
	}
	return recipes, nil
}

func (s *RecipeService) Get(ctx context.Context, identity, id uint64) (*model.Recipe, error) {
	return s.owned(ctx, identity, id)
}

func (s *RecipeService) Create(ctx context.Context, identity uint64, in CreateRecipeInput) (*model.Recipe, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Instructions = strings.TrimSpace(in.Instructions)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	trimIngredients(in.Ingredients)
	if err := s.validate.Struct(in, "invalid recipe"); err != nil {
		return nil, err
	}

	rec := &model.Recipe{
		UserID:       identity,
		Title:        in.Title,
		Ingredients:  toIngredients(in.Ingredients),
		Instructions: in.Instructions,
		ImageURL:     in.ImageURL,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "create recipe")
	}
	return rec, nil
}

func (s *RecipeService) Update(ctx context.Context, identity, id uint64, in UpdateRecipeInput) (*model.Recipe, error) {
	trimPtr(in.Title)
	trimPtr(in.Instructions)
	trimPtr(in.ImageURL)
	if in.Ingredients != nil {
		trimIngredients(*in.Ingredients)
	}
	if err := s.validate.Struct(in, "invalid recipe"); err != nil {
		return nil, err
	}

	rec, err := s.owned(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		rec.Title = *in.Title
	}
	if in.Ingredients != nil {
		rec.Ingredients = toIngredients(*in.Ingredients)
	}
	if in.Instructions != nil {
		rec.Instructions = *in.Instructions
	}
	if in.ImageURL != nil {
		rec.ImageURL = *in.ImageURL
	}

	if err := s.store.Update(ctx, rec); err != nil {
		return nil, storeErr(err, "recipe not found", "update recipe")
	}
	return rec, nil
}

func (s *RecipeService) Delete(ctx context.Context, identity, id uint64) error {
	if _, err := s.owned(ctx, identity, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id, identity); err != nil {
		return storeErr(err, "recipe not found", "delete recipe")
	}
	return nil
}

// Suggest queries the external catalogue. With no ingredients given it
// searches by the names of identity's groceries.
func (s *RecipeService) Suggest(ctx context.Context, identity uint64, ingredients []string) ([]model.SuggestedRecipe, error) {
	names := cleanNames(ingredients)
	if len(names) == 0 {
		items, err := s.groceries.ListByUser(ctx, identity)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "list groceries")
		}
		pantry := make([]string, 0, len(items))
		for _, it := range items {
			if !it.Consumed {
				pantry = append(pantry, it.Name)
			}
		}
		names = cleanNames(pantry)
	}
	if len(names) == 0 {
		return nil, apperr.Validation("ingredients are required",
			apperr.FieldError{Field: "ingredients", Message: "is required"})
	}
	if s.finder == nil {
		return nil, apperr.New(apperr.CodeUpstreamFailure, "recipe lookup is not configured")
	}

	found, err := s.finder.FindByIngredients(ctx, names)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeUpstreamFailure) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.CodeUpstreamFailure, err, "failed to fetch recipes")
	}
	if found == nil {
		found = make([]model.SuggestedRecipe, 0)
	}
	return found, nil
}

// Details renders either recipe variant in one shape.
func (s *RecipeService) Details(src model.RecipeSource) (model.RecipeDetails, error) {
	switch r := src.(type) {
	case model.OwnedRecipe:
		id := r.Recipe.ID
		return model.RecipeDetails{
			Kind:         model.RecipeKindOwned,
			RecipeID:     &id,
			Title:        r.Recipe.Title,
			Ingredients:  append([]model.Ingredient{}, r.Recipe.Ingredients...),
			Instructions: r.Recipe.Instructions,
			ImageURL:     r.Recipe.ImageURL,
		}, nil
	case model.SuggestedRecipe:
		id := r.ID
		missing := make([]string, 0, len(r.MissedIngredients))
		for _, ing := range r.MissedIngredients {
			missing = append(missing, ing.Name)
		}
		return model.RecipeDetails{
			Kind:               model.RecipeKindSuggested,
			ExternalID:         &id,
			Title:              r.Title,
			Ingredients:        suggestedIngredients(r),
			MissingIngredients: missing,
			Instructions:       suggestedInstructions(r),
			ImageURL:           r.Image,
		}, nil
	default:
		return model.RecipeDetails{}, apperr.New(apperr.CodeInternal, fmt.Sprintf("unknown recipe source %T", src))
	}
}

// Save copies a suggestion into identity's recipes. Owned recipes are
// already saved and are rejected with Conflict.
func (s *RecipeService) Save(ctx context.Context, identity uint64, src model.RecipeSource) (*model.Recipe, error) {
	switch r := src.(type) {
	case model.OwnedRecipe:
		return nil, apperr.Conflict("recipe is already saved")
	case model.SuggestedRecipe:
		// A suggestion is client-supplied JSON, so it goes through the same
		// checks as a hand-written recipe before anything is stored.
		in := CreateRecipeInput{
			Title:        r.Title,
			Ingredients:  fromIngredients(suggestedIngredients(r)),
			Instructions: suggestedInstructions(r),
			ImageURL:     r.Image,
		}
		return s.Create(ctx, identity, in)
	default:
		return nil, apperr.New(apperr.CodeInternal, fmt.Sprintf("unknown recipe source %T", src))
	}
}

func (s *RecipeService) owned(ctx context.Context, identity, id uint64) (*model.Recipe, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "recipe not found", "load recipe")
	}
	if rec.UserID != identity {
		return nil, apperr.Forbidden("not authorized to access this recipe")
	}
	return rec, nil
}

// suggestedIngredients lists used ingredients first, then missed ones.
func suggestedIngredients(r model.SuggestedRecipe) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(r.UsedIngredients)+len(r.MissedIngredients))
	for _, group := range [][]model.SuggestedIngredient{r.UsedIngredients, r.MissedIngredients} {
		for _, ing := range group {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}
			out = append(out, model.Ingredient{Name: name, Quantity: suggestedQuantity(ing)})
		}
	}
	return out
}

func suggestedQuantity(ing model.SuggestedIngredient) string {
	if ing.Amount <= 0 {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%g %s", ing.Amount, ing.Unit))
}

func suggestedInstructions(r model.SuggestedRecipe) string {
	if s := strings.TrimSpace(r.Instructions); s != "" {
		return s
	}
	return noInstructions
}

func trimIngredients(ings []IngredientInput) {
	for i := range ings {
		ings[i].Name = strings.TrimSpace(ings[i].Name)
		ings[i].Quantity = strings.TrimSpace(ings[i].Quantity)
	}
}

func fromIngredients(in []model.Ingredient) []IngredientInput {
	out := make([]IngredientInput, 0, len(in))
	for _, ing := range in {
		out = append(out, IngredientInput{Name: ing.Name, Quantity: ing.Quantity})
	}
	return out
}

func toIngredients(in []IngredientInput) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(in))
	for _, ing := range in {
		out = append(out, model.Ingredient{Name: ing.Name, Quantity: ing.Quantity})
	}
	return out
}

// cleanNames trims, lower-cases and de-duplicates ingredient names.
func cleanNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
