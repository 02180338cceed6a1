package pass

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/kaleaditya28897-linux/gatepass/internal/identity"
	"github.com/kaleaditya28897-linux/gatepass/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	passes := r.Group("/passes")

	// Public QR lookup; rate limited because it is unauthenticated.
	passes.GET("/verify/:code", middleware.RateLimitByIP(rate.Limit(5), 10), handler.Verify)

	authed := passes.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleEmployee),
			handler.GetAll)
		authed.GET("/:id",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleEmployee),
			handler.GetById)
		authed.POST("",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin, identity.RoleEmployee),
			handler.Create)
		authed.POST("/:id/approve",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin),
			handler.Approve)
		authed.POST("/:id/reject",
			middleware.RequireRoles(identity.RoleAdmin, identity.RoleCompanyAdmin),
			handler.Reject)
		authed.POST("/walk-in",
			middleware.RequireRoles(identity.RoleGuard),
			handler.WalkIn)
	}
}
