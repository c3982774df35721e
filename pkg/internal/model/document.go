package model

import (
	"time"
)

// SentinelTitle 标记"空文件夹"占位文档. 管理端预建分类/品牌节点时插入一行
// 无真实文件的记录，普通列表必须过滤它，批量改名/删除必须能匹配它.
const SentinelTitle = "__DIR__"

// SentinelFileURL 占位文档的 file_url 取值，无真实对象.
const SentinelFileURL = "#"

// Document 文档模型.
type Document struct {
	ID    string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Title string `gorm:"size:512;index"              json:"title"`
	// DocType 遗留枚举列（document/catalog/manual）. 列名保持 category 以兼容
	// 既有表结构；真实分类编码在 Description 里，见 pkg/internal/taxonomy.
	DocType     string `gorm:"size:128;index;column:category" json:"doc_type"`
	Description string `gorm:"type:text"                      json:"description"`
	// Brand 品牌列，必须与 Description 编码里的品牌段保持一致
	Brand         string `gorm:"size:255;index"  json:"brand"`
	FileURL       string `gorm:"size:1024"       json:"file_url"`
	ObjectKey     string `gorm:"size:1024;index" json:"object_key"`
	FileName      string `gorm:"size:512"        json:"file_name"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	// UploadedBy 为 nil 表示无主（上传者主动解除归属后匿名保留）
	UploadedBy    *string   `gorm:"size:128;index" json:"uploaded_by,omitempty"`
	UploaderName  string    `gorm:"size:255"       json:"uploader_name"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 返回表名.
func (Document) TableName() string {
	return "documents"
}

// IsSentinel 判断是否为占位文档.
func (d *Document) IsSentinel() bool {
	return d.Title == SentinelTitle
}
