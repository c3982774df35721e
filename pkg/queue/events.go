package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishDocumentStored 发布 dv.document.stored 事件。
// 文件写入对象存储且元数据落库后调用，通知下游（统计、审计）.
func PublishDocumentStored(pub message.Publisher, payload DocumentStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicDocumentStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDocumentStored, msg)
}

// PublishDocumentDeleted 发布 dv.document.deleted 事件。
func PublishDocumentDeleted(pub message.Publisher, payload DocumentDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicDocumentDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDocumentDeleted, msg)
}

// PublishDocumentDisowned 发布 dv.document.disowned 事件。
func PublishDocumentDisowned(pub message.Publisher, payload DocumentDisownedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicDocumentDisowned, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDocumentDisowned, msg)
}

// PublishTaxonomyChanged 发布 dv.taxonomy.changed 事件。
// 批量改名/删除完成后调用，消费方依据它失效目录树缓存.
func PublishTaxonomyChanged(pub message.Publisher, payload TaxonomyChangedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTaxonomyChanged, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTaxonomyChanged, msg)
}

// PublishEntitlementChanged 发布 dv.entitlement.changed 事件。
func PublishEntitlementChanged(pub message.Publisher, payload EntitlementChangedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicEntitlementChanged, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicEntitlementChanged, msg)
}

// PublishOrganizerCompleted 发布 dv.organizer.completed 事件。
func PublishOrganizerCompleted(pub message.Publisher, payload OrganizerCompletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicOrganizerCompleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicOrganizerCompleted, msg)
}

// ParseTaxonomyChanged 将 Watermill 消息解析为强类型 Envelope.
func ParseTaxonomyChanged(msg *message.Message) (Message[TaxonomyChangedPayload], error) {
	return ParseWatermillMessage[TaxonomyChangedPayload](msg)
}

// ParseDocumentStored 将 Watermill 消息解析为强类型 Envelope.
func ParseDocumentStored(msg *message.Message) (Message[DocumentStoredPayload], error) {
	return ParseWatermillMessage[DocumentStoredPayload](msg)
}
