package model

import (
	"time"
)

// 用户角色. 管理员能力通过角色列授予，不再依赖硬编码邮箱比对.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 账户模型. 主键直接使用身份提供方的 subject 标识，没有独立内部 ID.
type User struct {
	ID        string `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email     string `gorm:"size:255;index"               json:"email"`
	Name      string `gorm:"size:255"                     json:"name"`
	AvatarURL string `gorm:"size:1024;column:avatar_url"  json:"avatar_url"`
	Role      string `gorm:"size:32;default:user"         json:"role"`
	// IsPro 付费权益开关，只允许计费 webhook 翻转
	IsPro bool `gorm:"column:is_pro" json:"is_pro"`
	// Stripe 侧的外部引用；客户对象懒创建，订阅仅在生效期间存在
	StripeCustomerID     *string   `gorm:"size:255;column:stripe_customer_id"     json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `gorm:"size:255;column:stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName 返回表名.
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断是否为管理员.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
