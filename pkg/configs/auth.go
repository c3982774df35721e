package configs

import "github.com/spf13/viper"

// AuthConfig 控制请求方身份校验与管理员引导.
//
// 身份信息由前端登录流程换取的 Bearer Token 携带，服务端此处只做存在性校验并
// 从 X-User-Id 提取调用者身份（与上游保持一致的 MVP 信任模型，校验器可在
// middleware 单点替换）. 管理员不再硬编码邮箱，而是落在 users.role 上，
// AdminEmails 仅在身份同步时用于引导初始管理员.
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"`         // 开启认证校验
	SkipPaths     []string `mapstructure:"skip_paths"`      // 跳过认证的路径前缀
	DevAllowQuery bool     `mapstructure:"dev_allow_query"` // 开发模式允许 ?uid= 便于本地调试
	AdminEmails   []string `mapstructure:"admin_emails"`    // 同步时授予 admin 角色的邮箱
	// CronSecret 定时任务触发接口的共享密钥
	CronSecret string `mapstructure:"cron_secret"`
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.dev_allow_query", false)
	v.SetDefault("auth.admin_emails", []string{})
	v.SetDefault("auth.cron_secret", "")
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/api/v1/health",
		"/api/v1/billing/webhook",
	})
}
