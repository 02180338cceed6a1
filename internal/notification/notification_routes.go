package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("",
			middleware.RequireRoles(identity.RoleAdmin),
			handler.GetAll)
	}
}
