package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/configs"
)

// uidContextKey gin context 里保存调用者 uid 的键.
const uidContextKey = "caller_uid"

// AuthMiddleware 统一身份校验.
//   - 要求存在 Bearer Token 与 X-User-Id（MVP 信任模型：令牌只做存在性校验，
//     调用者身份取自请求头，替换为真实校验器时只改这一处）
//   - 支持通过配置跳过某些路径（如 /metrics, webhook）
//   - 开发模式可允许 ?uid= 兜底（由 configs.auth.dev_allow_query 控制）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			// 即便跳过校验也尽量带上身份，方便日志归因
			if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
				c.Set(uidContextKey, uid)
			}

			c.Next()

			return
		}

		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		token := bearerToken(c)

		if token == "" || uid == "" {
			if conf.DevAllowQuery && c.Query("uid") != "" {
				c.Set(uidContextKey, strings.TrimSpace(c.Query("uid")))
				c.Next()

				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		c.Set(uidContextKey, uid)
		c.Next()
	}
}

// CallerUID 返回当前请求的调用者 uid，未认证时为空串.
func CallerUID(c *gin.Context) string {
	if v, ok := c.Get(uidContextKey); ok {
		if uid, ok2 := v.(string); ok2 {
			return uid
		}
	}

	return ""
}

// bearerToken 提取 Authorization: Bearer <token> 的令牌部分.
func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))

	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
