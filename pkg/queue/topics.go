// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：dv.<域>.<动作>，尽量稳定且向后兼容.
// 域：document(文档)、taxonomy(目录)、entitlement(付费权益)、organizer(AI 整理)
// 动作：stored/deleted/disowned/changed/completed 等过去式或状态词

const (
	// 文档领域.
	TopicDocumentStored   = "dv.document.stored"   // 文件已写入对象存储且元数据落库
	TopicDocumentDeleted  = "dv.document.deleted"  // 文档（及其对象）被删除
	TopicDocumentDisowned = "dv.document.disowned" // 上传者解除归属，文档转为无主

	// 目录领域. 批量改名/删除后发布，消费方失效目录树缓存.
	TopicTaxonomyChanged = "dv.taxonomy.changed"

	// 付费权益领域. 只由计费 webhook 发布.
	TopicEntitlementChanged = "dv.entitlement.changed"

	// AI 整理领域.
	TopicOrganizerCompleted = "dv.organizer.completed" // 一轮整理结束（含失败）
)

// 主题分组，用于批量订阅.
var (
	// 文档相关主题集合.
	DocumentTopics = []string{
		TopicDocumentStored, TopicDocumentDeleted, TopicDocumentDisowned,
	}
)
