package configs

import "github.com/spf13/viper"

// BillingConfig Stripe 计费配置. Webhook 签名密钥缺失时 webhook 路由拒绝一切请求.
type BillingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	SecretKey     string `mapstructure:"secret_key"`     // Stripe API 密钥
	WebhookSecret string `mapstructure:"webhook_secret"` // Webhook 签名密钥
	PriceID       string `mapstructure:"price_id"`       // 订阅价格 ID
	// SuccessPath / CancelPath 拼接在 server.public_base_url 之后
	SuccessPath string `mapstructure:"success_path"`
	CancelPath  string `mapstructure:"cancel_path"`
}

func (c *BillingConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("billing.enabled", true)
	v.SetDefault("billing.secret_key", "")
	v.SetDefault("billing.webhook_secret", "")
	v.SetDefault("billing.price_id", "")
	v.SetDefault("billing.success_path", "/dashboard/success")
	v.SetDefault("billing.cancel_path", "/dashboard/cancelled")
}
