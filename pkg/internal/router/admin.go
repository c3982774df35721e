package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
	"github.com/yeisme/docvault/pkg/middleware"
	"github.com/yeisme/docvault/pkg/scheduler"
)

// registerAdminRoutes 管理端路由，整组挂 admin 角色门控.
func registerAdminRoutes(api *gin.RouterGroup, s *scheduler.Scheduler) {
	admin := api.Group("/admin", middleware.RequireAdmin())

	admin.PATCH("/documents/:id", handle.AdminUpdateDocument)
	admin.DELETE("/documents/:id", handle.AdminDeleteDocument)

	admin.POST("/categories", handle.CreateCategory)
	admin.PATCH("/categories", handle.RenameCategory)
	admin.DELETE("/categories", handle.DeleteCategory)

	admin.POST("/brands", handle.CreateBrand)
	admin.PATCH("/brands", handle.RenameBrand)
	admin.DELETE("/brands", handle.DeleteBrand)

	admin.GET("/jobs", handle.SchedulerJobs(s))
}
