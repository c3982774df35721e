package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/configs"
)

// CronAuth 定时任务触发接口的共享密钥校验. 密钥未配置时拒绝一切请求；
// 每次请求读配置，热重载后立刻生效.
func CronAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := configs.GetConfig().Auth.CronSecret
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "cron trigger disabled"})
			return
		}

		token := bearerToken(c)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
