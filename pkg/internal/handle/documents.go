package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/rule"
)

// ListDocuments 按过滤条件分页列出文档.
func ListDocuments(c *gin.Context) {
	var req types.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid list query")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewDocumentService(c.Request.Context())

	resp, err := svc.List(c.Request.Context(), callerUID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDocumentTree 返回分类→品牌两级目录树.
func GetDocumentTree(c *gin.Context) {
	svc := service.NewDocumentService(c.Request.Context())

	resp, err := svc.Tree(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDocument 单篇文档详情.
func GetDocument(c *gin.Context) {
	svc := service.NewDocumentService(c.Request.Context())

	item, err := svc.Get(c.Request.Context(), callerUID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UploadDocument multipart 上传：文本字段 + file 字段.
func UploadDocument(c *gin.Context) {
	uid, ok := requireUID(c)
	if !ok {
		return
	}

	l := log.Logger()

	var req types.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid upload form")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close() //nolint:errcheck

	file := service.UploadedFile{
		Reader:      f,
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}

	svc := service.NewDocumentService(c.Request.Context())

	resp, err := svc.Upload(c.Request.Context(), uid, uploaderName(c, uid), &req, file)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DownloadDocument 下载计数：原子 +1 并返回跳转地址与新计数.
func DownloadDocument(c *gin.Context) {
	svc := service.NewDocumentService(c.Request.Context())

	resp, err := svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DisownDocument 上传者解除归属，行与文件保留.
func DisownDocument(c *gin.Context) {
	uid, ok := requireUID(c)
	if !ok {
		return
	}

	svc := service.NewDocumentService(c.Request.Context())

	if err := svc.Disown(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// uploaderName 上传时快照展示名，查不到用户行就退回 uid.
func uploaderName(c *gin.Context, uid string) string {
	svc := service.NewEntitlementService(c.Request.Context())

	user, err := svc.GetUser(c.Request.Context(), uid)
	if err != nil || user.Name == "" {
		return uid
	}

	return user.Name
}
