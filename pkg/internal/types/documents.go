package types

import "time"

// ListDocumentsRequest 文档列表查询. 过滤条件全部可选，分类过滤必须带品牌的
// 上级分类语义时用 Category+Brand 组合.
type ListDocumentsRequest struct {
	// DocType 遗留类型列过滤（document/catalog/manual）
	DocType string `form:"doc_type" json:"doc_type,omitempty"`
	// Category / Brand 结构化分类过滤
	Category string `form:"category" json:"category,omitempty"`
	Brand    string `form:"brand"    json:"brand,omitempty"`
	// Mine 只看当前用户上传的文档
	Mine bool `form:"mine" json:"mine,omitempty"`
	// Search 标题模糊搜索
	Search string `form:"search" json:"search,omitempty"`
	Limit  int    `form:"limit"  json:"limit,omitempty"  rule:"min=0,max=200"`
	Offset int    `form:"offset" json:"offset,omitempty" rule:"min=0"`
}

// DocumentItem 列表/详情中的一条文档.
type DocumentItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	DocType  string `json:"doc_type"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Notes    string `json:"notes,omitempty"`
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	// FileSizeBytes 文件大小（字节）
	FileSizeBytes int64     `json:"file_size_bytes"`
	UploaderName  string    `json:"uploader_name"`
	Mine          bool      `json:"mine"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListDocumentsResponse 文档列表响应.
type ListDocumentsResponse struct {
	Documents []DocumentItem `json:"documents"`
	Total     int64          `json:"total"`
}

// UploadDocumentRequest 上传表单（multipart 的文本字段部分）.
type UploadDocumentRequest struct {
	Title    string `form:"title"    rule:"required,max=512"`
	// DocType 可缺省，service 层落库时默认 document
	DocType  string `form:"doc_type" rule:"omitempty,doc_type"`
	Category string `form:"category" rule:"taxonomy_name,max=128"`
	Brand    string `form:"brand"    rule:"taxonomy_name,max=255"`
	Notes    string `form:"notes"    rule:"max=2000"`
}

// UploadDocumentResponse 上传结果.
type UploadDocumentResponse struct {
	Document DocumentItem `json:"document"`
}

// DownloadResponse 下载计数结果，file_url 供前端直接跳转.
type DownloadResponse struct {
	FileURL  string `json:"file_url"`
	NewCount int64  `json:"new_count"`
}

// TreeBrand 目录树中一个品牌节点.
type TreeBrand struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TreeCategory 目录树中一个分类节点.
type TreeCategory struct {
	Name   string      `json:"name"`
	Count  int         `json:"count"`
	Brands []TreeBrand `json:"brands"`
}

// TreeResponse 两级目录树.
type TreeResponse struct {
	Categories []TreeCategory `json:"categories"`
}
