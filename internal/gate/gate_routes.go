package gate

import (
	"github.com/gin-gonic/gin"

	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	gates := r.Group("/gates")
	gates.Use(middleware.AuthMiddleware())
	{
		gates.GET("", handler.GetAll)
		gates.GET("/:id", handler.GetById)
		gates.POST("", middleware.RequireRoles(identity.RoleAdmin), handler.Create)
		gates.POST("/:id/deactivate", middleware.RequireRoles(identity.RoleAdmin), handler.Deactivate)
		gates.GET("/:id/shifts", middleware.RequireRoles(identity.RoleAdmin), handler.GetShifts)
	}
}
