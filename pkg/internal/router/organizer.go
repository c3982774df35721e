package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
	"github.com/yeisme/docvault/pkg/middleware"
)

// registerCronRoutes 定时任务的 HTTP 触发入口，共享密钥保护.
func registerCronRoutes(api *gin.RouterGroup) {
	cron := api.Group("/cron", middleware.CronAuth())

	cron.GET("/ai-organizer", handle.RunOrganizer)
}
