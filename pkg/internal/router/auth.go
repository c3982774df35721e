package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
)

func registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	auth.POST("/sync", handle.SyncUser)
}
