package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/rule"
)

// SyncUser 登录后身份同步：建行或刷新资料，返回含权益的用户视图.
func SyncUser(c *gin.Context) {
	var req types.SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid sync request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.UID == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid and email are required"})
		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 同步的身份必须是调用者自己
	if uid := callerUID(c); uid != "" && uid != req.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "uid mismatch"})
		return
	}

	svc := service.NewIdentityService(c.Request.Context())

	profile, err := svc.Sync(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
