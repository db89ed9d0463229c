package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
)

// suggestTimeout covers the outbound recipe search plus the pantry lookup.
const suggestTimeout = 15 * time.Second

type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	if recipes == nil {
		panic("nil recipe service passed to NewRecipeHandler")
	}
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) List(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	recipes, err := h.recipes.List(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipes)
}

// Get renders an owned recipe in the shared details shape.
func (h *RecipeHandler) Get(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	rec, err := h.recipes.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	details, err := h.recipes.Details(model.OwnedRecipe{Recipe: *rec})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (h *RecipeHandler) Create(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	var req service.CreateRecipeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	rec, err := h.recipes.Create(ctx, uid, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *RecipeHandler) Update(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.UpdateRecipeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	rec, err := h.recipes.Update(ctx, uid, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *RecipeHandler) Delete(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	if err := h.recipes.Delete(ctx, uid, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "recipe removed"})
}

// FromAPI searches the external recipe API. ?ingredients is a comma
// separated list; without it the user's pantry is used.
func (h *RecipeHandler) FromAPI(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	var names []string
	if raw := c.QueryParam("ingredients"); raw != "" {
		names = strings.Split(raw, ",")
	}
	ctx, cancel := requestContext(c, suggestTimeout)
	defer cancel()

	suggestions, err := h.recipes.Suggest(ctx, uid, names)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, suggestions)
}

// Save copies an external suggestion into the user's own recipes. The
// body is the suggestion exactly as FromAPI returned it.
func (h *RecipeHandler) Save(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	var req model.SuggestedRecipe
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	rec, err := h.recipes.Save(ctx, uid, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}
