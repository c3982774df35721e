package configs

import "github.com/spf13/viper"

const (
	DefaultAIModel     = "gemini-2.5-flash" // 默认分类模型
	DefaultAIBatchSize = 50                 // 单次扫描的文档数上限
	DefaultAICron      = "0 3 * * *"        // 每天 03:00 扫描
)

// AIConfig 生成式分类器（文档整理任务）配置.
type AIConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BatchSize int    `mapstructure:"batch_size" rule:"min=1,max=200"`
	// Cron 定时扫描表达式，留空则只保留 HTTP 触发入口
	Cron string `mapstructure:"cron"`

	// 熔断参数：分类器是系统里唯一的慢上游，用 gobreaker 保护
	BreakerMinRequests     uint32  `mapstructure:"breaker_min_requests"`
	BreakerFailureRate     float64 `mapstructure:"breaker_failure_rate"`
	BreakerTimeoutSeconds  int     `mapstructure:"breaker_timeout_seconds"`
	BreakerIntervalSeconds int     `mapstructure:"breaker_interval_seconds"`
}

func (c *AIConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.batch_size", DefaultAIBatchSize)
	v.SetDefault("ai.cron", DefaultAICron)

	v.SetDefault("ai.breaker_min_requests", 3)
	v.SetDefault("ai.breaker_failure_rate", 0.6)
	v.SetDefault("ai.breaker_timeout_seconds", 120)
	v.SetDefault("ai.breaker_interval_seconds", 300)
}
