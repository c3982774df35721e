package configs

import (
	"github.com/spf13/viper"
)

// KVConfig 键值缓存配置. 分类树等热点读走这里.
type KVConfig struct {
	Type  string        `mapstructure:"type"  rule:"oneof=memory redis"`
	Redis RedisKVConfig `mapstructure:"redis"`
	// TreeTTLSeconds 分类树缓存的有效期（秒）
	TreeTTLSeconds int `mapstructure:"tree_ttl_seconds" rule:"min=1"`
}

// RedisKVConfig Redis KV 配置.
type RedisKVConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

const DefaultTreeTTLSeconds = 300 // 分类树缓存 5 分钟

// GetKVType 返回当前配置的 KV 类型.
func (c *KVConfig) GetKVType() string {
	return c.Type
}

// setDefaults 设置 KV 配置的默认值.
func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", "memory")
	v.SetDefault("kv.tree_ttl_seconds", DefaultTreeTTLSeconds)

	// Redis 默认值
	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.redis.password", "")
	v.SetDefault("kv.redis.db", 0)
}
