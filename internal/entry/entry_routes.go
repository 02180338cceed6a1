package entry

import (
	"github.com/gin-gonic/gin"

	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	entries := r.Group("/entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.POST("/check-in",
			middleware.RequireRoles(identity.RoleGuard),
			handler.CheckIn)
		entries.POST("/:id/check-out",
			middleware.RequireRoles(identity.RoleGuard),
			handler.CheckOut)
		entries.GET("/active",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleGuard),
			handler.Active)
		entries.GET("",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleGuard),
			handler.GetAll)
	}
}
