// Package router 管理路由配置：把 /api/v1 下的路径绑定到 handle 层处理器，
// 并挂上角色/权益/cron 密钥等路由级中间件.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/scheduler"
)

// Options 注入路由需要的运行期对象.
type Options struct {
	// Scheduler 管理端查看定时任务状态用，可为 nil（serve 未启动调度器时）
	Scheduler *scheduler.Scheduler
}

// Register 将全部业务路由绑定到 gin 引擎.
func Register(engine *gin.Engine, opts Options) {
	api := engine.Group("/api/v1")

	registerHealthRoutes(api)
	registerAuthRoutes(api)
	registerDocumentRoutes(api)
	registerFavoriteRoutes(api)
	registerAdminRoutes(api, opts.Scheduler)
	registerBillingRoutes(api)
	registerCronRoutes(api)
}
