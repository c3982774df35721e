package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/scheduler"
)

// SchedulerJobs 返回定时任务注册表与运行状态，管理端观察 AI 整理任务用.
func SchedulerJobs(s *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler not running"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"jobs": s.GetJobInfos()})
	}
}
