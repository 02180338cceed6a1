package audit

import (
	"github.com/gin-gonic/gin"

	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("",
			middleware.RequireRoles(identity.RoleAdmin),
			handler.GetAll)
	}
}
