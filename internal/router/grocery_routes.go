package router

import (
	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/handler"
)

// RegisterGrocery registers the /grocery endpoints. Every route requires
// a session; handlers scope all reads and writes to the current user.
func RegisterGrocery(e *echo.Echo, h *handler.GroceryHandler, session echo.MiddlewareFunc) {
	g := e.Group("/grocery", session)

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/summary", h.Summary) // static segment wins over :id
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
