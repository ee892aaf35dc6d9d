package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts comment creation under the item it belongs to.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.POST("/items/:id/comment", authMiddleware, h.Create)
}
