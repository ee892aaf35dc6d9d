package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware gin.HandlerFunc) {
	// Public Routes
	usersGroup := g.Group("/users")
	{
		usersGroup.POST("", h.Register)
		usersGroup.GET("", h.List)
		usersGroup.GET("/:id", h.Get)
	}

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)

	selfGroup := usersGroup.Group("")
	selfGroup.Use(authMiddleware)
	{
		selfGroup.PATCH("/:id", h.Update)
		selfGroup.DELETE("/:id", h.Delete)
	}
}
