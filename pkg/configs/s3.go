package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// S3Config MinIO S3 存储配置. 文档桶为公共读，上传受大小与 MIME 限制.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
	// PublicRead 启动时为桶设置匿名只读策略（文档直链下载依赖它）
	PublicRead bool `mapstructure:"public_read"`
	// MaxUploadBytes 单文件上传上限
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" rule:"min=1"`
	// AllowedTypes 允许的 Content-Type 白名单
	AllowedTypes []string `mapstructure:"allowed_types"`
}

const (
	DefaultS3Endpoint        = "localhost:9000"   // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"       // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"       // 默认秘密访问密钥
	DefaultS3UseSSL          = false              // 默认是否使用SSL
	DefaultS3BucketName      = "documents"        // 默认存储桶名称
	DefaultS3Region          = "us-east-1"        // 默认区域
	DefaultS3PublicRead      = true               // 默认公共读
	DefaultS3MaxUploadBytes  = 50 * 1024 * 1024   // 50MB 上限
	DefaultS3AllowedType     = "application/pdf"  // 仅接受 PDF
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.public_read", DefaultS3PublicRead)
	v.SetDefault("s3.max_upload_bytes", DefaultS3MaxUploadBytes)
	v.SetDefault("s3.allowed_types", []string{DefaultS3AllowedType})
}
