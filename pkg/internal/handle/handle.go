// Package handle 提供 HTTP 请求处理器的实现. 只做协议转换：绑定/校验请求、
// 调 service、把哨兵错误翻译为状态码.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/middleware"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// callerUID 取认证中间件注入的调用者身份.
func callerUID(c *gin.Context) string {
	return middleware.CallerUID(c)
}

// requireUID 同 callerUID，但缺失时直接写 401 并返回 false.
func requireUID(c *gin.Context) (string, bool) {
	uid := callerUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}

	return uid, true
}

// writeServiceError 将 service 层哨兵错误映射到 HTTP 状态码.
func writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrProRequired):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUpstream):
		// 上游（计费/分类器/存储）失败按 500 报，错误文本原样透出便于排障
		log.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("upstream failure")
	default:
		log.Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
