package delivery

import (
	"github.com/gin-gonic/gin"

	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	deliveries := r.Group("/deliveries")
	deliveries.Use(middleware.AuthMiddleware())
	{
		deliveries.GET("",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleEmployee),
			handler.GetAll)
		deliveries.GET("/:id",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleEmployee),
			handler.GetById)
		deliveries.POST("",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleEmployee),
			handler.Create)

		// Gate-side operations.
		deliveries.GET("/pending-gate",
			middleware.RequireRoles(identity.RoleGuard),
			handler.PendingForGate)
		deliveries.POST("/:id/arrived",
			middleware.RequireRoles(identity.RoleGuard),
			handler.MarkArrived)
		deliveries.POST("/:id/delivered",
			middleware.RequireRoles(identity.RoleGuard),
			handler.MarkDelivered)
		deliveries.POST("/:id/verify-otp",
			middleware.RequireRoles(identity.RoleGuard),
			middleware.RateLimitByUser(1, 5),
			handler.VerifyOTP)
	}
}
