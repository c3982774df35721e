package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/log"
)

// RunOrganizer 触发一次 AI 整理扫描. 由 cron 密钥中间件保护，
// 输出格式不合法时整批拒绝并返回 500.
func RunOrganizer(c *gin.Context) {
	svc, err := service.NewOrganizerService(c.Request.Context())
	if err != nil {
		log.Logger().Warn().Err(err).Msg("organizer unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

		return
	}

	summary, err := svc.Run(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
