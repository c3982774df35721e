package types

// SyncUserRequest 登录后身份同步请求.
type SyncUserRequest struct {
	UID       string `json:"uid"   binding:"required" rule:"max=128"`
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name"  rule:"max=255"`
	AvatarURL string `json:"avatar_url" rule:"omitempty,url"`
}

// UserProfile 同步后的用户视图.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	IsPro     bool   `json:"is_pro"`
}
