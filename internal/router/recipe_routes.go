package router

import (
	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/handler"
)

// RegisterRecipes registers the /recipes endpoints, including the
// external search and the save-from-search shortcut.
func RegisterRecipes(e *echo.Echo, h *handler.RecipeHandler, session echo.MiddlewareFunc) {
	g := e.Group("/recipes", session)

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/from-api", h.FromAPI)
	g.POST("/save", h.Save)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
