package types

// CreateCategoryRequest 预建分类节点（插入占位文档）.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required" rule:"taxonomy_name,max=128"`
}

// CreateBrandRequest 在分类下预建品牌节点.
type CreateBrandRequest struct {
	Category string `json:"category" binding:"required" rule:"taxonomy_name,max=128"`
	Name     string `json:"name"     binding:"required" rule:"taxonomy_name,max=255"`
}

// RenameCategoryRequest 批量分类改名.
type RenameCategoryRequest struct {
	OldName string `json:"old_name" binding:"required" rule:"taxonomy_name,max=128"`
	NewName string `json:"new_name" binding:"required" rule:"taxonomy_name,max=128"`
}

// RenameBrandRequest 批量品牌改名. Category 可选，填了则只影响该分类下的品牌.
type RenameBrandRequest struct {
	Category string `json:"category,omitempty" rule:"omitempty,taxonomy_name,max=128"`
	OldName  string `json:"old_name" binding:"required" rule:"taxonomy_name,max=255"`
	NewName  string `json:"new_name" binding:"required" rule:"taxonomy_name,max=255"`
}

// DeleteCategoryRequest 删除分类及其全部文档.
type DeleteCategoryRequest struct {
	Name string `json:"name" binding:"required" rule:"taxonomy_name,max=128"`
}

// DeleteBrandRequest 删除分类下某品牌的全部文档.
type DeleteBrandRequest struct {
	Category string `json:"category" binding:"required" rule:"taxonomy_name,max=128"`
	Name     string `json:"name"     binding:"required" rule:"taxonomy_name,max=255"`
}

// RowFailure 批量操作中单行失败明细.
type RowFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// 批量操作状态.
const (
	BulkStatusOK      = "ok"
	BulkStatusPartial = "partial"
)

// BulkResult 批量目录操作结果. 部分失败不回滚，失败行逐条列出.
type BulkResult struct {
	Matched int          `json:"matched"`
	Updated int          `json:"updated"`
	Deleted int          `json:"deleted"`
	Failed  []RowFailure `json:"failed,omitempty"`
	Status  string       `json:"status"`
}

// AdminUpdateDocumentRequest 管理员修正单篇文档的元数据.
type AdminUpdateDocumentRequest struct {
	Title    string `json:"title,omitempty"    rule:"omitempty,max=512"`
	Category string `json:"category,omitempty" rule:"omitempty,taxonomy_name,max=128"`
	Brand    string `json:"brand,omitempty"    rule:"omitempty,taxonomy_name,max=255"`
	Notes    string `json:"notes,omitempty"    rule:"omitempty,max=2000"`
}
