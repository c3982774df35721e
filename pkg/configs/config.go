// Package configs 管理应用程序配置，包括数据库、对象存储、缓存、消息队列、
// 计费与 AI 分类器的配置信息. 支持多种配置格式（YAML、JSON、TOML、dotenv）并可热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本号.
const AppVersion = "0.3.0"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		DB        DBConfig        `mapstructure:"db"`         // 数据库配置
		S3        S3Config        `mapstructure:"s3"`         // 对象存储配置
		KV        KVConfig        `mapstructure:"kv"`         // 键值缓存配置
		MQ        MQConfig        `mapstructure:"mq"`         // 事件队列配置
		Server    ServerConfig    `mapstructure:"server"`     // 服务器配置
		Log       LogConfig       `mapstructure:"log"`        // 日志配置
		Auth      AuthConfig      `mapstructure:"auth"`       // 认证与管理员配置
		Billing   BillingConfig   `mapstructure:"billing"`    // 计费（Stripe）配置
		AI        AIConfig        `mapstructure:"ai"`         // 生成式分类器配置
		Metrics   MetricsConfig   `mapstructure:"metrics"`    // 监控配置
		Tracing   TracingConfig   `mapstructure:"tracing"`    // 追踪配置
		RateLimit RateLimitConfig `mapstructure:"rate_limit"` // 限流配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，path 可以是配置文件或其所在目录.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	// path 为文件时直接使用，否则在目录下探测 config.*
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}
		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("DOCVAULT")

	// 配置文件可缺省，全部走环境变量与默认值
	if err := appViper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置段的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig    ServerConfig
		dbConfig        DBConfig
		s3Config        S3Config
		kvConfig        KVConfig
		mqConfig        MQConfig
		logConfig       LogConfig
		authConfig      AuthConfig
		billingConfig   BillingConfig
		aiConfig        AIConfig
		metricsConfig   MetricsConfig
		tracingConfig   TracingConfig
		rateLimitConfig RateLimitConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	s3Config.setDefaults(v)
	kvConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	logConfig.setDefaults(v)
	authConfig.setDefaults(v)
	billingConfig.setDefaults(v)
	aiConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
	rateLimitConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	return appViper
}
