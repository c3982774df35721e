package configs

import (
	"github.com/spf13/viper"
)

// MQType 事件队列类型.
type MQType string

const (
	// MQTypeChannel 进程内 gochannel 实现（默认，单实例部署够用）.
	MQTypeChannel MQType = "channel"
	// MQTypeNATS 外部 NATS 实现.
	MQTypeNATS MQType = "nats"
)

const (
	DefaultMQURL           = "nats://localhost:4222"
	DefaultMQClientID      = "docvault-app" // 默认客户端ID
	DefaultMaxReconnects   = 5              // 默认最大重连次数
	DefaultReconnectWaitMS = 5000           // 默认重连等待（毫秒）
	DefaultChannelBuffer   = 64             // gochannel 输出缓冲
)

// MQConfig 事件队列配置. 目录变更、上传、计费事件都经由它广播.
type MQConfig struct {
	Type MQType `mapstructure:"type" rule:"oneof=channel nats"`

	// NATS 连接参数，Type 为 nats 时生效
	URL             string `mapstructure:"url"`
	ClientID        string `mapstructure:"client_id"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	MaxReconnects   int    `mapstructure:"max_reconnects"    rule:"min=0,max=100"`
	ReconnectWaitMS int    `mapstructure:"reconnect_wait_ms" rule:"min=100"`

	// ChannelBuffer gochannel 模式的缓冲大小
	ChannelBuffer int64 `mapstructure:"channel_buffer" rule:"min=0"`
}

// GetMQType 返回当前配置的事件队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置事件队列配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeChannel)
	v.SetDefault("mq.url", DefaultMQURL)
	v.SetDefault("mq.client_id", DefaultMQClientID)
	v.SetDefault("mq.user", "")
	v.SetDefault("mq.password", "")
	v.SetDefault("mq.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.reconnect_wait_ms", DefaultReconnectWaitMS)
	v.SetDefault("mq.channel_buffer", DefaultChannelBuffer)
}
