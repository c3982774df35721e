package model

import (
	"time"
)

// Favorite 用户收藏关系，(user_id, document_id) 唯一.
// 任一侧被硬删除时由外键级联清理.
type Favorite struct {
	ID         uint      `gorm:"primaryKey"                                        json:"id"`
	UserID     string    `gorm:"size:128;not null;index;uniqueIndex:idx_user_doc"  json:"user_id"`
	DocumentID string    `gorm:"size:64;not null;index;uniqueIndex:idx_user_doc"   json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"     json:"-"`
	Document *Document `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"document,omitempty"`
}

// TableName 返回表名.
func (Favorite) TableName() string {
	return "favorites"
}
