// Package service 汇集业务逻辑：文档仓库访问、目录批量变更、身份同步、
// 付费权益与 AI 整理. handle 层只做协议转换，规则都落在这里.
package service

import (
	"context"
	"io"

	"github.com/yeisme/docvault/pkg/internal/storage/mq"
	dlog "github.com/yeisme/docvault/pkg/log"
)

// ObjectStore 是业务层对对象存储的依赖面，*s3.Client 实现它.
// 测试里用内存假实现替换.
type ObjectStore interface {
	Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
	PublicURL(objectKey string) string
}

// publishEvent 发布事件，MQ 未初始化或发布失败只记日志不影响主流程.
func publishEvent(ctx context.Context, mqc *mq.Client, topic string, publish func() error) {
	if mqc == nil {
		return
	}

	if err := publish(); err != nil {
		dlog.Logger().Warn().Err(err).Str("topic", topic).Msg("事件发布失败")
	}
}
