// Package mq 挂载进程内事件消费者：目录树缓存失效与文档事件审计日志.
package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/service"
	dmq "github.com/yeisme/docvault/pkg/internal/storage/mq"
	dlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/queue"
)

// StartConsumers 启动全部进程内消费者. ctx 需携带存储管理器，
// 随 ctx 取消而退出.
func StartConsumers(ctx context.Context) error {
	client := ctxPkg.GetMQClient(ctx)
	if client == nil {
		dlog.Logger().Info().Msg("mq client not initialized, consumers disabled")
		return nil
	}

	if err := consumeTaxonomyChanged(ctx, client); err != nil {
		return err
	}

	return consumeDocumentAudit(ctx, client)
}

// consumeTaxonomyChanged 目录变更后失效目录树缓存.
// 发布方已同步失效过一次，这里兜底多实例部署时其他副本的缓存.
func consumeTaxonomyChanged(ctx context.Context, client *dmq.Client) error {
	msgs, err := client.Subscribe(ctx, queue.TopicTaxonomyChanged)
	if err != nil {
		return err
	}

	go func() {
		l := dlog.Logger()
		docs := service.NewDocumentService(ctx)

		for msg := range msgs {
			evt, err := queue.ParseTaxonomyChanged(msg)
			if err != nil {
				l.Warn().Err(err).Str("message_id", msg.UUID).Msg("无法解析目录变更事件")
				msg.Ack()

				continue
			}

			docs.InvalidateTree(ctx)

			l.Info().
				Str("scope", evt.Payload.Scope).
				Str("action", evt.Payload.Action).
				Int("affected", evt.Payload.Affected).
				Msg("目录变更，树缓存已失效")

			msg.Ack()
		}
	}()

	return nil
}

// consumeDocumentAudit 文档事件审计日志，只记录不处理.
func consumeDocumentAudit(ctx context.Context, client *dmq.Client) error {
	for _, topic := range queue.DocumentTopics {
		msgs, err := client.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		go auditLoop(topic, msgs)
	}

	return nil
}

func auditLoop(topic string, msgs <-chan *message.Message) {
	l := dlog.Logger()

	for msg := range msgs {
		l.Info().
			Str("topic", topic).
			Str("message_id", msg.UUID).
			RawJSON("payload", msg.Payload).
			Msg("document event")

		msg.Ack()
	}
}
