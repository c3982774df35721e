package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
)

func registerHealthRoutes(api *gin.RouterGroup) {
	api.GET("/health", handle.Health)
}
