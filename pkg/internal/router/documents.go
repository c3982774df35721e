package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
	"github.com/yeisme/docvault/pkg/middleware"
)

// registerDocumentRoutes 文档仓库路由. 上传与下载计数是付费能力，
// 解除归属只要求认证（归属校验在 service 层）.
func registerDocumentRoutes(api *gin.RouterGroup) {
	docs := api.Group("/documents")

	docs.GET("", handle.ListDocuments)
	docs.GET("/tree", handle.GetDocumentTree)
	docs.GET("/:id", handle.GetDocument)

	docs.POST("", middleware.RequirePro(), handle.UploadDocument)
	docs.POST("/:id/download", middleware.RequirePro(), handle.DownloadDocument)
	docs.DELETE("/:id", handle.DisownDocument)
}
