package service

import "errors"

// 业务层哨兵错误，handle 层据此映射 HTTP 状态码.
var (
	// ErrNotFound 目标资源不存在.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden 调用者无权执行该操作.
	ErrForbidden = errors.New("operation forbidden")
	// ErrUnauthorized 调用者身份缺失或不可信.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation 入参不合法.
	ErrValidation = errors.New("invalid request")
	// ErrUpstream 外部依赖（计费、分类器）失败.
	ErrUpstream = errors.New("upstream service failure")
	// ErrProRequired 操作需要有效的付费权益.
	ErrProRequired = errors.New("pro subscription required")
)
