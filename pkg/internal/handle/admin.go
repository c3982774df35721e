package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/rule"
)

// bindAdminBody 管理端请求统一的绑定+校验.
func bindAdminBody(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Logger().Warn().Err(err).Str("path", c.Request.URL.Path).Msg("invalid admin request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}

	return true
}

// CreateCategory 预建分类节点.
func CreateCategory(c *gin.Context) {
	var req types.CreateCategoryRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewTaxonomyService(c.Request.Context())

	if err := svc.CreateCategory(c.Request.Context(), req.Name); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// RenameCategory 批量分类改名，部分失败返回明细.
func RenameCategory(c *gin.Context) {
	var req types.RenameCategoryRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewTaxonomyService(c.Request.Context())

	result, err := svc.RenameCategory(c.Request.Context(), req.OldName, req.NewName)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteCategory 删除分类及其全部文档.
func DeleteCategory(c *gin.Context) {
	var req types.DeleteCategoryRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewTaxonomyService(c.Request.Context())

	result, err := svc.DeleteCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateBrand 在分类下预建品牌节点.
func CreateBrand(c *gin.Context) {
	var req types.CreateBrandRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewTaxonomyService(c.Request.Context())

	if err := svc.CreateBrand(c.Request.Context(), req.Category, req.Name); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// RenameBrand 批量品牌改名，可限定分类范围.
func RenameBrand(c *gin.Context) {
	var req types.RenameBrandRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewTaxonomyService(c.Request.Context())

	result, err := svc.RenameBrand(c.Request.Context(), req.Category, req.OldName, req.NewName)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteBrand 删除分类下某品牌的全部文档.
func DeleteBrand(c *gin.Context) {
	var req types.DeleteBrandRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewTaxonomyService(c.Request.Context())

	result, err := svc.DeleteBrand(c.Request.Context(), req.Category, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AdminUpdateDocument 管理员修正单篇文档元数据.
func AdminUpdateDocument(c *gin.Context) {
	var req types.AdminUpdateDocumentRequest
	if !bindAdminBody(c, &req) {
		return
	}

	svc := service.NewDocumentService(c.Request.Context())

	item, err := svc.AdminUpdate(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// AdminDeleteDocument 管理员硬删除文档（行 + 对象）.
func AdminDeleteDocument(c *gin.Context) {
	svc := service.NewDocumentService(c.Request.Context())

	if err := svc.AdminDelete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
