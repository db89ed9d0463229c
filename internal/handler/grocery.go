package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
)

// GroceryHandler serves /grocery. Every route runs behind SessionAuth and
// only ever touches the current user's items.
type GroceryHandler struct {
	groceries *service.GroceryService
}

func NewGroceryHandler(groceries *service.GroceryService) *GroceryHandler {
	if groceries == nil {
		panic("nil grocery service passed to NewGroceryHandler")
	}
	return &GroceryHandler{groceries: groceries}
}

// List returns the current user's items ordered by expiry date.
func (h *GroceryHandler) List(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	items, err := h.groceries.List(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *GroceryHandler) Get(c echo.Context) error {
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

	item, err := h.groceries.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *GroceryHandler) Create(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	var req service.CreateGroceryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	item, err := h.groceries.Create(ctx, uid, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update applies a partial update; absent fields keep their stored value.
func (h *GroceryHandler) Update(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.UpdateGroceryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	item, err := h.groceries.Update(ctx, uid, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *GroceryHandler) Delete(c echo.Context) error {
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

	if err := h.groceries.Delete(ctx, uid, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "grocery item removed"})
}

// Summary returns the dashboard counts for the current user.
func (h *GroceryHandler) Summary(c echo.Context) error {
	uid, err := identity(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	summary, err := h.groceries.Summary(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
