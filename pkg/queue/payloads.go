package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 文档领域 --------------------------

// DocumentRef 标识一份文档及其对象存储位置.
type DocumentRef struct {
	ID        string `json:"id"`
	ObjectKey string `json:"object_key,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// DocumentStoredPayload 文件写入对象存储且元数据落库.
type DocumentStoredPayload struct {
	Document DocumentRef `json:"document"`
	Category string      `json:"category"`
	Brand    string      `json:"brand"`
	// UploadedBy 上传者标识
	UploadedBy string `json:"uploaded_by,omitempty"`
}

// DocumentDeletedPayload 文档被删除.
type DocumentDeletedPayload struct {
	Document DocumentRef `json:"document"`
	// Reason 删除来源：owner（上传者）、admin（批量清理）、organizer（AI 判重）
	Reason string `json:"reason,omitempty"`
}

// DocumentDisownedPayload 上传者解除归属.
type DocumentDisownedPayload struct {
	Document DocumentRef `json:"document"`
	// FormerOwner 解除前的上传者标识
	FormerOwner string `json:"former_owner,omitempty"`
}

// -------------------------- 目录领域 --------------------------

// TaxonomyChangedPayload 目录结构变更（改名或删除）.
type TaxonomyChangedPayload struct {
	// Scope category 或 brand
	Scope string `json:"scope"`
	// Category 受影响的分类；Scope 为 brand 时同时填 Brand
	Category string `json:"category"`
	Brand    string `json:"brand,omitempty"`
	// Action rename 或 delete
	Action string `json:"action"`
	// NewName 改名后的名字，Action 为 rename 时有效
	NewName string `json:"new_name,omitempty"`
	// Affected 受影响的文档行数
	Affected int `json:"affected"`
}

// -------------------------- 付费权益领域 --------------------------

// EntitlementChangedPayload 用户付费状态翻转.
type EntitlementChangedPayload struct {
	UserID string `json:"user_id"`
	IsPro  bool   `json:"is_pro"`
	// SourceEvent 触发来源的计费事件类型
	SourceEvent string `json:"source_event,omitempty"`
}

// -------------------------- AI 整理领域 --------------------------

// OrganizerCompletedPayload 一轮 AI 整理结束.
type OrganizerCompletedPayload struct {
	Scanned     int    `json:"scanned"`
	Corrected   int    `json:"corrected"`
	Duplicates  int    `json:"duplicates"`
	Failed      int    `json:"failed"`
	Status      string `json:"status"` // ok / partial / failed
	ElapsedMS   int64  `json:"elapsed_ms"`
	ErrorDetail string `json:"error_detail,omitempty"`
}
